package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

const keyPrefix = "bag:"

// BagRepository implements repository.BagRepository using Redis. Bags are
// stored as JSON under one key per user with a TTL, so abandoned bags expire
// on their own.
type BagRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBagRepository creates a new Redis-backed bag repository.
func NewBagRepository(client *redis.Client, ttl time.Duration) *BagRepository {
	return &BagRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a bag by user ID from Redis.
func (r *BagRepository) Get(ctx context.Context, userID string) (*domain.Bag, error) {
	key := keyPrefix + userID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("shopping-bag", userID)
		}
		return nil, fmt.Errorf("redis get bag: %w", err)
	}

	var bag domain.Bag
	if err := json.Unmarshal(data, &bag); err != nil {
		return nil, fmt.Errorf("unmarshal bag: %w", err)
	}

	return &bag, nil
}

// Save persists a bag to Redis with the configured TTL.
func (r *BagRepository) Save(ctx context.Context, bag *domain.Bag) error {
	key := keyPrefix + bag.UserID

	data, err := json.Marshal(bag)
	if err != nil {
		return fmt.Errorf("marshal bag: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set bag: %w", err)
	}

	return nil
}

// Delete removes a bag from Redis by user ID. Deleting a missing bag is not
// an error.
func (r *BagRepository) Delete(ctx context.Context, userID string) error {
	key := keyPrefix + userID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del bag: %w", err)
	}

	return nil
}
