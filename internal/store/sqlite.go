// Package store 日线数据的 SQLite 持久化，用于数据源不可用时兜底和离线预测
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"price-forecast/internal/model"
)

// DefaultDBFileName 传入目录时使用的文件名
const DefaultDBFileName = "prices.db"

// Store SQLite 日线存储
type Store struct {
	db *sql.DB
}

// SymbolSummary 某只股票的存储概况
type SymbolSummary struct {
	Symbol string
	Bars   int
	First  time.Time
	Last   time.Time
}

// ResolvePath 路径没有扩展名或是已存在目录时，拼接默认文件名
func ResolvePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if filepath.Ext(p) == "" {
		return filepath.Join(p, DefaultDBFileName)
	}
	if fi, err := os.Stat(p); err == nil && fi.IsDir() {
		return filepath.Join(p, DefaultDBFileName)
	}
	return p
}

// Open 打开（或创建）数据库并建表
func Open(path string) (*Store, error) {
	path = ResolvePath(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.ToSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite 单写者，连接池只保留一个连接
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// EnsureSchema 建表
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol TEXT NOT NULL,
			trade_date TEXT NOT NULL,
			open REAL NOT NULL,
			high REAL NOT NULL,
			low REAL NOT NULL,
			close REAL NOT NULL,
			volume REAL NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (symbol, trade_date)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_price_bars_date ON price_bars(trade_date);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// SaveBars 写入或覆盖日线
func (s *Store) SaveBars(ctx context.Context, symbol string, bars []model.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO price_bars(
  symbol, trade_date, open, high, low, close, volume, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx,
			symbol,
			b.Date.Format(model.DateLayout),
			b.Open,
			b.High,
			b.Low,
			b.Close,
			b.Volume,
			now,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert %s %s: %w", symbol, b.Date.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

// LoadBars 读取 since 当天及之后的日线，按日期升序
func (s *Store) LoadBars(ctx context.Context, symbol string, since time.Time) ([]model.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT trade_date, open, high, low, close, volume
FROM price_bars
WHERE symbol = ? AND trade_date >= ?
ORDER BY trade_date ASC
`, symbol, since.Format(model.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var (
			date string
			b    model.Bar
		)
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		d, err := time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("bad trade_date %q: %w", date, err)
		}
		b.Date = d
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// LastDate 已存储的最后交易日，没有数据时 ok 为 false
func (s *Store) LastDate(ctx context.Context, symbol string) (last time.Time, ok bool, err error) {
	var date sql.NullString
	if err := s.db.QueryRowContext(ctx,
		`SELECT MAX(trade_date) FROM price_bars WHERE symbol = ?`, symbol,
	).Scan(&date); err != nil {
		return time.Time{}, false, err
	}
	if !date.Valid {
		return time.Time{}, false, nil
	}
	last, err = time.Parse(model.DateLayout, date.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return last, true, nil
}

// Summaries 每只股票的存储概况
func (s *Store) Summaries(ctx context.Context) ([]SymbolSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT symbol, COUNT(*), MIN(trade_date), MAX(trade_date)
FROM price_bars
GROUP BY symbol
ORDER BY symbol
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SymbolSummary
	for rows.Next() {
		var (
			sum         SymbolSummary
			first, last string
		)
		if err := rows.Scan(&sum.Symbol, &sum.Bars, &first, &last); err != nil {
			return nil, err
		}
		sum.First, _ = time.Parse(model.DateLayout, first)
		sum.Last, _ = time.Parse(model.DateLayout, last)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close 关闭数据库
func (s *Store) Close() error {
	return s.db.Close()
}
