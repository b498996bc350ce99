// Package holiday 交易日历：周末休市，另可从 JSON 文件加载节假日
package holiday

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// IST NSE 所在时区
var IST = time.FixedZone("IST", 5*3600+30*60)

// Calendar 交易日历，可并发使用
type Calendar struct {
	mu       sync.RWMutex
	loc      *time.Location
	holidays map[string]bool
}

// NewCalendar 创建日历，loc 为空时使用 IST
func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = IST
	}
	return &Calendar{loc: loc, holidays: make(map[string]bool)}
}

// Location 日历所在时区
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// LoadCustomHolidays 从JSON文件加载节假日配置
// 文件格式：{"holidays": ["2025-01-26", "2025-03-14", ...]}
func (c *Calendar) LoadCustomHolidays(filePath string) (int, error) {
	if filePath == "" {
		return 0, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil // 文件不存在不算错误
		}
		return 0, fmt.Errorf("read holidays file: %w", err)
	}

	var config struct {
		Holidays []string `json:"holidays"`
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return 0, fmt.Errorf("parse holidays file: %w", err)
	}

	for _, d := range config.Holidays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return 0, fmt.Errorf("bad holiday date %q: %w", d, err)
		}
	}
	c.AddHolidays(config.Holidays...)
	return len(config.Holidays), nil
}

// AddHolidays 添加节假日（YYYY-MM-DD）
func (c *Calendar) AddHolidays(dates ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range dates {
		c.holidays[d] = true
	}
}

// IsTradingDay 周一到周五且不在节假日列表中
func (c *Calendar) IsTradingDay(t time.Time) bool {
	t = t.In(c.loc)
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.holidays[t.Format("2006-01-02")]
}

// NextTradingDay t 之后的第一个交易日
func (c *Calendar) NextTradingDay(t time.Time) time.Time {
	d := t.In(c.loc).AddDate(0, 0, 1)
	for !c.IsTradingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc)
}
