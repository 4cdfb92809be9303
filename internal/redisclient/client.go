package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Fixed key prefixes for the two persisted records. Absence of a key means
// "empty/none", never an error.
const (
	cartKeyPrefix  = "storefront:cart:"
	userKeyPrefix  = "storefront:user:"
	eventKeyPrefix = "storefront:event:"
)

// processedEventTTL bounds how long duplicate-event suppression state lives.
const processedEventTTL = 24 * time.Hour

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SaveCart writes the full cart line sequence as JSON. Called synchronously
// after every successful ledger mutation.
func (c *Client) SaveCart(ctx context.Context, owner string, lines []models.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return c.rdb.Set(ctx, cartKeyPrefix+owner, data, 0).Err()
}

// LoadCart reads the persisted cart. A missing key yields an empty cart.
func (c *Client) LoadCart(ctx context.Context, owner string) ([]models.CartLine, error) {
	data, err := c.rdb.Get(ctx, cartKeyPrefix+owner).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return lines, nil
}

// SaveUser persists the shopper profile.
func (c *Client) SaveUser(ctx context.Context, owner string, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return c.rdb.Set(ctx, userKeyPrefix+owner, data, 0).Err()
}

// LoadUser reads the persisted profile. A missing key yields (nil, nil).
func (c *Client) LoadUser(ctx context.Context, owner string) (*models.User, error) {
	data, err := c.rdb.Get(ctx, userKeyPrefix+owner).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the persisted profile on logout.
func (c *Client) DeleteUser(ctx context.Context, owner string) error {
	return c.rdb.Del(ctx, userKeyPrefix+owner).Err()
}

// MarkEventProcessed records an event id and reports whether this call was
// the first to see it. Used by the receipt worker to stay idempotent across
// redeliveries.
func (c *Client) MarkEventProcessed(ctx context.Context, eventID string) (bool, error) {
	return c.rdb.SetNX(ctx, eventKeyPrefix+eventID, "1", processedEventTTL).Result()
}
