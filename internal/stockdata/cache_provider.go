package stockdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrCacheMiss 缓存不存在或已过期
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider 历史数据缓存，值以 JSON 存储
type CacheProvider interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type inMemoryCacheItem struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryCacheProvider 进程内 LRU 缓存，条目按各自过期时间失效
type InMemoryCacheProvider struct {
	items *lru.Cache[string, inMemoryCacheItem]
}

// NewInMemoryCacheProvider 创建进程内缓存，size 为最多保留的条目数
func NewInMemoryCacheProvider(size int) (*InMemoryCacheProvider, error) {
	items, err := lru.New[string, inMemoryCacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &InMemoryCacheProvider{items: items}, nil
}

func (p *InMemoryCacheProvider) Get(_ context.Context, key string, dest any) error {
	item, ok := p.items.Get(key)
	if !ok {
		return ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		p.items.Remove(key)
		return ErrCacheMiss
	}
	if len(item.data) == 0 {
		return ErrCacheMiss
	}
	return json.Unmarshal(item.data, dest)
}

func (p *InMemoryCacheProvider) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = time.Now().Add(expiration)
	}
	p.items.Add(key, inMemoryCacheItem{data: b, expiresAt: expiresAt})
	return nil
}

// Len 当前条目数
func (p *InMemoryCacheProvider) Len() int {
	return p.items.Len()
}
