package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"price-forecast/internal/model"
	"price-forecast/internal/stockdata"
)

// 任务状态
const (
	TaskPending  = "pending"
	TaskRunning  = "running"
	TaskDone     = "done"
	TaskFailed   = "failed"
	TaskCanceled = "canceled"
)

const (
	defaultTaskTTL         = 30 * time.Minute
	defaultTaskConcurrency = 3
	maxTaskSymbols         = 50
)

var (
	// ErrTaskNotFound 任务不存在或已过期
	ErrTaskNotFound = errors.New("task not found or expired")
	// ErrTooManySymbols 单个任务的股票数超过上限
	ErrTooManySymbols = errors.New("too many symbols")
)

type predictTask struct {
	id        string
	status    string
	requestID string
	current   string
	done      int
	total     int
	results   []model.TaskResult
	err       string
	cancel    context.CancelFunc
	expiresAt time.Time
}

// TaskManager 批量预测任务，内存保存，过期自动清理
type TaskManager struct {
	predictor *Predictor
	log       *zap.Logger
	ttl       time.Duration
	timeout   time.Duration
	now       func() time.Time

	mu        sync.Mutex
	tasks     map[string]*predictTask
	byRequest map[string]string
	sem       chan struct{}
}

// NewTaskManager 创建任务管理器，timeout 为单只股票的预测超时，<=0 表示不限制
func NewTaskManager(predictor *Predictor, timeout time.Duration, log *zap.Logger) *TaskManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskManager{
		predictor: predictor,
		log:       log,
		ttl:       defaultTaskTTL,
		timeout:   timeout,
		now:       time.Now,
		tasks:     make(map[string]*predictTask),
		byRequest: make(map[string]string),
		sem:       make(chan struct{}, defaultTaskConcurrency),
	}
}

// Create 创建任务；相同 requestID 且任务未过期时返回已有任务，第二个返回值为 false
func (m *TaskManager) Create(symbols []string, daysAhead int, requestID string) (model.PredictTaskStatus, bool, error) {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		return model.PredictTaskStatus{}, false, ErrSymbolRequired
	}
	if len(symbols) > maxTaskSymbols {
		return model.PredictTaskStatus{}, false, fmt.Errorf("%w: %d > %d", ErrTooManySymbols, len(symbols), maxTaskSymbols)
	}
	if err := m.predictor.ValidateRequest(symbols[0], daysAhead); err != nil {
		return model.PredictTaskStatus{}, false, err
	}
	requestID = strings.TrimSpace(requestID)
	now := m.now()

	m.mu.Lock()
	m.cleanupExpiredLocked(now)
	if requestID != "" {
		if existingID, ok := m.byRequest[requestID]; ok {
			if t, ok := m.tasks[existingID]; ok {
				out := buildTaskStatus(t)
				m.mu.Unlock()
				return out, false, nil
			}
			delete(m.byRequest, requestID)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &predictTask{
		id:        uuid.NewString(),
		status:    TaskPending,
		requestID: requestID,
		total:     len(symbols),
		cancel:    cancel,
		expiresAt: now.Add(m.ttl),
	}
	m.tasks[t.id] = t
	if requestID != "" {
		m.byRequest[requestID] = t.id
	}
	out := buildTaskStatus(t)
	m.mu.Unlock()

	go m.run(ctx, t, symbols, daysAhead)
	return out, true, nil
}

// Get 查询任务状态
func (m *TaskManager) Get(taskID string) (model.PredictTaskStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupExpiredLocked(m.now())

	t, ok := m.tasks[taskID]
	if !ok {
		return model.PredictTaskStatus{}, ErrTaskNotFound
	}
	return buildTaskStatus(t), nil
}

// Cancel 取消任务，已结束的任务原样返回
func (m *TaskManager) Cancel(taskID string) (model.PredictTaskStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupExpiredLocked(m.now())

	t, ok := m.tasks[taskID]
	if !ok {
		return model.PredictTaskStatus{}, ErrTaskNotFound
	}
	switch t.status {
	case TaskDone, TaskFailed, TaskCanceled:
	default:
		t.cancel()
		t.status = TaskCanceled
		t.err = "task canceled"
		t.current = ""
		if t.requestID != "" {
			delete(m.byRequest, t.requestID)
		}
	}
	return buildTaskStatus(t), nil
}

func (m *TaskManager) run(ctx context.Context, t *predictTask, symbols []string, daysAhead int) {
	defer t.cancel()

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-m.sem }()

	m.mu.Lock()
	if t.status == TaskPending {
		t.status = TaskRunning
	}
	m.mu.Unlock()

	results := make([]model.TaskResult, 0, len(symbols))
	for i, symbol := range symbols {
		m.mu.Lock()
		if t.status == TaskCanceled {
			m.mu.Unlock()
			return
		}
		t.current = symbol
		m.mu.Unlock()

		res, err := m.predictOne(ctx, symbol, daysAhead)
		if err != nil {
			m.mu.Lock()
			if t.status != TaskCanceled {
				t.status = TaskFailed
				t.done = i
				t.results = results
				t.err = fmt.Sprintf("%s: %v", symbol, err)
				m.releaseRequestLocked(t)
			}
			m.mu.Unlock()
			m.log.Warn("predict task failed", zap.String("task_id", t.id), zap.String("symbol", symbol), zap.Error(err))
			return
		}
		results = append(results, res)

		m.mu.Lock()
		if t.status == TaskCanceled {
			t.results = results
			m.mu.Unlock()
			return
		}
		t.done = i + 1
		m.mu.Unlock()
	}

	m.mu.Lock()
	t.status = TaskDone
	t.results = results
	t.done = len(symbols)
	t.current = ""
	m.releaseRequestLocked(t)
	m.mu.Unlock()
	m.log.Info("predict task done", zap.String("task_id", t.id), zap.Int("symbols", len(symbols)))
}

func (m *TaskManager) predictOne(ctx context.Context, symbol string, daysAhead int) (model.TaskResult, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	resp, err := m.predictor.Predict(ctx, symbol, daysAhead)
	if err != nil {
		return model.TaskResult{}, err
	}
	return model.TaskResult{
		Symbol:      symbol,
		Predictions: resp.Predictions,
		StockInfo:   resp.StockInfo,
	}, nil
}

// releaseRequestLocked 任务结束后允许相同 requestID 重新创建
func (m *TaskManager) releaseRequestLocked(t *predictTask) {
	if t.requestID != "" && m.byRequest[t.requestID] == t.id {
		delete(m.byRequest, t.requestID)
	}
}

func (m *TaskManager) cleanupExpiredLocked(now time.Time) {
	for id, t := range m.tasks {
		if now.After(t.expiresAt) {
			t.cancel()
			delete(m.tasks, id)
		}
	}
	for rid, tid := range m.byRequest {
		if _, ok := m.tasks[tid]; !ok {
			delete(m.byRequest, rid)
		}
	}
}

func buildTaskStatus(t *predictTask) model.PredictTaskStatus {
	out := model.PredictTaskStatus{
		TaskID:    t.id,
		Status:    t.status,
		Current:   t.current,
		Done:      t.done,
		Total:     t.total,
		Error:     t.err,
		ExpiresAt: t.expiresAt,
	}
	if t.status == TaskDone || t.status == TaskFailed {
		out.Results = append([]model.TaskResult(nil), t.results...)
	}
	return out
}

func normalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = stockdata.NormalizeSymbol(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
