// Package redisstore stores users, projects and tasks as JSON documents in Redis.
// Ownership and containment are indexed with sorted sets scored by creation
// time, so listing is a ZREVRANGE followed by an MGET.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

// Store implements storage.Store on a go-redis client.
type Store struct {
	client *redis.Client
	prefix string
}

var _ storage.Store = (*Store)(nil)

// New wraps client. Keys are namespaced under prefix.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "taskflow"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// Helper methods for key generation
func (s *Store) userKey(id string) string {
	return fmt.Sprintf("%s:user:%s", s.prefix, id)
}

func (s *Store) userEmailKey(email string) string {
	return fmt.Sprintf("%s:user:email:%s", s.prefix, email)
}

func (s *Store) ownerProjectsKey(ownerID string) string {
	return fmt.Sprintf("%s:user:%s:projects", s.prefix, ownerID)
}

func (s *Store) projectKey(id string) string {
	return fmt.Sprintf("%s:project:%s", s.prefix, id)
}

func (s *Store) projectTasksKey(projectID string) string {
	return fmt.Sprintf("%s:project:%s:tasks", s.prefix, projectID)
}

func (s *Store) taskKey(id string) string {
	return fmt.Sprintf("%s:task:%s", s.prefix, id)
}

// score orders set members by creation time. Microseconds stay exact in a float64.
func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

func (s *Store) getJSON(ctx context.Context, key string, dst any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

// maxUpdateAttempts bounds the optimistic retries in updateJSON.
const maxUpdateAttempts = 5

// updateJSON rewrites the document at key under WATCH. The write only commits
// when the key is unchanged since it was read, so an update racing a delete
// never brings the document back. mutate may return storage.ErrNotFound to
// reject the document.
func updateJSON[T any](ctx context.Context, c *redis.Client, key string, mutate func(*T) error) (*T, error) {
	var doc T
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}

		var cur T
		if err := json.Unmarshal(data, &cur); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		if err := mutate(&cur); err != nil {
			return err
		}
		out, err := json.Marshal(cur)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, out, 0)
			return nil
		})
		if err != nil {
			return err
		}
		doc = cur
		return nil
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := c.Watch(ctx, txf, key)
		if err == nil {
			return &doc, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("update %s: %w", key, redis.TxFailedErr)
}

// mgetJSON loads the documents at keys in order, skipping keys that vanished
// between reading an index and reading the documents.
func mgetJSON[T any](ctx context.Context, c *redis.Client, keys []string) ([]T, error) {
	out := make([]T, 0, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}

	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", keys[i], err)
		}
		out = append(out, doc)
	}
	return out, nil
}
