package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schichtpilot/backend/config"
	pkgerrors "schichtpilot/backend/pkg/errors"
)

// Client Redis 客户端封装
// 用于覆盖结果短期缓存与导出接口限流
type Client struct {
	rdb    goredis.UniversalClient
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return NewFromClient(rdb, logger), nil
}

// NewFromClient 包装已有连接（测试中注入）
func NewFromClient(rdb goredis.UniversalClient, logger *zap.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// ── 覆盖结果缓存 ──

const cellPrefix = "coverage:cell:"

// CellKey 单元格缓存键：coverage:cell:<date>:<shift>
func CellKey(date, shift string) string {
	return cellPrefix + date + ":" + shift
}

// GetCells 一次 MGET 批量读取单元格结果（JSON），只返回命中的键
func (c *Client) GetCells(ctx context.Context, keys []string) (map[string][]byte, error) {
	if c == nil {
		return nil, pkgerrors.ErrCacheDisabled
	}
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	return collectHits(keys, vals), nil
}

// collectHits 按位置对应 MGET 返回值，nil 为未命中
func collectHits(keys []string, vals []any) map[string][]byte {
	hits := make(map[string][]byte, len(vals))
	for i, v := range vals {
		if i >= len(keys) {
			break
		}
		switch b := v.(type) {
		case string:
			hits[keys[i]] = []byte(b)
		case []byte:
			hits[keys[i]] = b
		}
	}
	return hits
}

// SetCells 批量写入单元格结果，ttl<=0 时不写
func (c *Client) SetCells(ctx context.Context, cells map[string][]byte, ttl time.Duration) error {
	if c == nil {
		return pkgerrors.ErrCacheDisabled
	}
	if ttl <= 0 || len(cells) == 0 {
		return nil
	}
	_, err := c.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for key, val := range cells {
			p.Set(ctx, key, val, ttl)
		}
		return nil
	})
	return err
}

// ── 限流 ──

// CheckRateLimit 滑动窗口限流：窗口内请求数未超过 limit 时返回 true
// 以有序集合记录请求时间戳，过期成员在每次检查时清理
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c == nil {
		return true, pkgerrors.ErrCacheDisabled
	}
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)
	windowStart := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	var card *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, key, "0", windowStart)
		p.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		card = p.ZCard(ctx, key)
		p.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		c.logger.Warn("限流检查失败", zap.String("key", key), zap.Error(err))
		return true, err
	}
	return card.Val() <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
