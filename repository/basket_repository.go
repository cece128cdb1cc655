package repository

import (
	"context"
	"encoding/json"
	"time"

	"heritage-backend/models"

	"github.com/redis/go-redis/v9"
)

// BasketRepository stores baskets in Redis keyed by the client-generated
// basket id. A nil basket with nil error means the basket does not exist.
type BasketRepository interface {
	Get(ctx context.Context, basketID string) (*models.Basket, error)
	Save(ctx context.Context, basket *models.Basket) error
	Delete(ctx context.Context, basketID string) error
}

type RedisBasketRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBasketRepository(client *redis.Client, ttl time.Duration) BasketRepository {
	return &RedisBasketRepository{client: client, ttl: ttl}
}

func (r *RedisBasketRepository) key(basketID string) string {
	return "basket:" + basketID
}

func (r *RedisBasketRepository) Get(ctx context.Context, basketID string) (*models.Basket, error) {
	data, err := r.client.Get(ctx, r.key(basketID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var basket models.Basket
	if err := json.Unmarshal([]byte(data), &basket); err != nil {
		return nil, err
	}
	return &basket, nil
}

func (r *RedisBasketRepository) Save(ctx context.Context, basket *models.Basket) error {
	basket.UpdatedAt = time.Now()

	data, err := json.Marshal(basket)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(basket.ID), data, r.ttl).Err()
}

func (r *RedisBasketRepository) Delete(ctx context.Context, basketID string) error {
	return r.client.Del(ctx, r.key(basketID)).Err()
}
