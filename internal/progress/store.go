// Package progress tracks blog chain runs in redis so clients can poll them.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPattern = "chain:run:%s"
	DefaultTTL = time.Hour
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrNotFound = errors.New("run not found")

// Record is the last reported state of one chain run.
type Record struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
	Error     string    `json:"error"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl, now: time.Now}
}

func key(runID string) string {
	return fmt.Sprintf(keyPattern, runID)
}

// Update overwrites the run's stage and status and refreshes its expiry.
func (s *Store) Update(ctx context.Context, runID, stage, status, errMsg string) error {
	k := key(runID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k,
			"stage", stage,
			"status", status,
			"error", errMsg,
			"updated_at", s.now().UTC().Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, k, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store progress for run %s: %w", runID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, runID string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, key(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load progress for run %s: %w", runID, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	record := &Record{
		RunID:  runID,
		Stage:  fields["stage"],
		Status: fields["status"],
		Error:  fields["error"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		record.UpdatedAt = ts
	}
	return record, nil
}
