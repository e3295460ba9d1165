// pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"quizhub/internal/models"
)

const detailTTL = 24 * time.Hour

// RedisCache holds rendered quiz-detail responses keyed by quiz id.
// Every write path for a quiz must invalidate its entry; reads that miss
// or fail fall through to the database.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: client}
}

func detailKey(quizID uuid.UUID) string {
	return "quiz:detail:" + quizID.String()
}

// GetQuizDetail returns (nil, nil) on a cache miss.
func (c *RedisCache) GetQuizDetail(ctx context.Context, quizID uuid.UUID) (*models.QuizDTO, error) {
	data, err := c.client.Get(ctx, detailKey(quizID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var detail models.QuizDTO
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *RedisCache) SetQuizDetail(ctx context.Context, detail *models.QuizDTO) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, detailKey(detail.ID), data, detailTTL).Err()
}

func (c *RedisCache) InvalidateQuiz(ctx context.Context, quizID uuid.UUID) error {
	return c.client.Del(ctx, detailKey(quizID)).Err()
}
