package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoClient is returned when no client is registered under a name
var ErrNoClient = errors.New("redis client not registered")

func lookup(clientName string) (*redis.Client, error) {
	client := GetClient(clientName)
	if client == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoClient, clientName)
	}
	return client, nil
}

/*
ToBool converts a stored reply to a bool
*/
func ToBool(data []byte) bool {
	return string(data) == "1"
}

// GetBoolFrom reads a boolean answer. found is false on a cache miss.
func GetBoolFrom(ctx context.Context, clientName, key string) (value bool, found bool, err error) {
	client, err := lookup(clientName)
	if err != nil {
		return false, false, err
	}

	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return ToBool(data), true, nil
}

// SetBoolOn stores a boolean answer with an expiration
func SetBoolOn(ctx context.Context, clientName, key string, value bool, ttl time.Duration) error {
	client, err := lookup(clientName)
	if err != nil {
		return err
	}

	stored := "0"
	if value {
		stored = "1"
	}
	return client.Set(ctx, key, stored, ttl).Err()
}

// DeleteOn removes keys from a specific client
func DeleteOn(ctx context.Context, clientName string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	client, err := lookup(clientName)
	if err != nil {
		return err
	}
	return client.Del(ctx, keys...).Err()
}

// PingClient checks the connection to a specific Redis client
func PingClient(ctx context.Context, clientName string) error {
	client, err := lookup(clientName)
	if err != nil {
		return err
	}
	return client.Ping(ctx).Err()
}

// ScanFrom collects the keys matching a pattern from a specific client
func ScanFrom(ctx context.Context, clientName, pattern string) ([]string, error) {
	client, err := lookup(clientName)
	if err != nil {
		return nil, err
	}

	var keys []string
	var cursor uint64

	for {
		var scanKeys []string
		scanKeys, cursor, err = client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}

		keys = append(keys, scanKeys...)

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// DeleteMatching removes every key matching pattern and returns the count
func DeleteMatching(ctx context.Context, clientName, pattern string) (int, error) {
	keys, err := ScanFrom(ctx, clientName, pattern)
	if err != nil {
		return 0, err
	}
	if err := DeleteOn(ctx, clientName, keys...); err != nil {
		return 0, err
	}
	return len(keys), nil
}
