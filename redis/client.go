package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kiani-exchange/otp-probe/otp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "otp:"

// Client stores pending OTP codes in Redis and satisfies otp.Store. Expiry
// is delegated to Redis key TTLs.
type Client struct {
	rdb *redis.Client
}

type storedCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := &Client{rdb: rdb}

	if err := client.Ping(ctx); err != nil {
		log.Error().Err(err).
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connection failed")
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	log.Info().
		Str("addr", addr).
		Int("db", db).
		Msg("Redis connected successfully")

	return client, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	payload, err := encodeCode(code, time.Now().Add(ttl))
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, codeKey(phone), payload, ttl).Err()
}

func (c *Client) Get(ctx context.Context, phone string) (otp.Entry, error) {
	raw, err := c.rdb.Get(ctx, codeKey(phone)).Bytes()
	if errors.Is(err, redis.Nil) {
		return otp.Entry{}, otp.ErrNotFound
	}
	if err != nil {
		return otp.Entry{}, err
	}
	return decodeCode(raw)
}

// Consume compares and deletes under WATCH, so two verifications of the
// same code cannot both succeed and a wrong code leaves the entry intact.
func (c *Client) Consume(ctx context.Context, phone, code string) error {
	key := codeKey(phone)

	err := c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return otp.ErrNotFound
		}
		if err != nil {
			return err
		}

		entry, err := decodeCode(raw)
		if err != nil {
			return err
		}
		if entry.Code != code {
			return otp.ErrInvalidCode
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)

	// The key changed between WATCH and EXEC: another caller consumed or
	// replaced the code.
	if errors.Is(err, redis.TxFailedErr) {
		return otp.ErrNotFound
	}
	return err
}

func codeKey(phone string) string {
	return keyPrefix + phone
}

func encodeCode(code string, expiresAt time.Time) ([]byte, error) {
	payload, err := json.Marshal(storedCode{Code: code, ExpiresAt: expiresAt.UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OTP: %w", err)
	}
	return payload, nil
}

func decodeCode(raw []byte) (otp.Entry, error) {
	var stored storedCode
	if err := json.Unmarshal(raw, &stored); err != nil {
		return otp.Entry{}, fmt.Errorf("failed to unmarshal OTP: %w", err)
	}
	return otp.Entry{Code: stored.Code, ExpiresAt: stored.ExpiresAt}, nil
}
