package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TIANLI0/InpaintKit/config"
	"github.com/TIANLI0/InpaintKit/model"
	"github.com/TIANLI0/InpaintKit/utils"
	"github.com/klauspost/compress/zstd"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const resultKeyPrefix = "inpaint:"

// RedisService 缓存补全结果，结果中包含整张PNG，存储前使用zstd压缩
type RedisService struct {
	client  *redis.Client
	ttl     time.Duration
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewRedisService(cfg *config.RedisConfig) (*RedisService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client:  client,
		ttl:     cfg.TTL,
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetInpaintResult 从缓存获取补全结果，未命中时返回 nil, nil
func (s *RedisService) GetInpaintResult(ctx context.Context, key string) (*model.InpaintResult, error) {
	data, err := s.client.Get(ctx, resultKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // 缓存未命中
		}
		return nil, err
	}

	result, err := s.decode(data)
	if err != nil {
		utils.Logger.Error("failed to decode inpaint result",
			zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// SetInpaintResult 设置补全结果到缓存
func (s *RedisService) SetInpaintResult(ctx context.Context, key string, result *model.InpaintResult) error {
	data, err := s.encode(result)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, resultKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisService) encode(result *model.InpaintResult) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return s.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

func (s *RedisService) decode(data []byte) (*model.InpaintResult, error) {
	raw, err := s.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress cached result: %w", err)
	}
	var result model.InpaintResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *RedisService) Close() error {
	s.decoder.Close()
	if err := s.encoder.Close(); err != nil {
		utils.Logger.Warn("failed to close zstd encoder", zap.Error(err))
	}
	return s.client.Close()
}
