// Package idempotency remembers the response of POST requests carrying an
// Idempotency-Key header so that client retries replay the first result
// instead of creating a second checkout or cancellation.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"matchtrip-be/internal/pkg/logger"

	bolt "github.com/boltdb/bolt"
)

const bucketName = "idempotency_keys"

var ErrNotFound = errors.New("idempotency key not found")

type State string

const (
	StateInFlight  State = "in_flight"
	StateCompleted State = "completed"
)

type Record struct {
	Key         string    `json:"key"`
	RequestHash string    `json:"request_hash"`
	State       State     `json:"state"`
	StatusCode  int       `json:"status_code,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Store struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time
}

func Open(path string, ttl time.Duration) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) expired(r *Record) bool {
	return s.ttl > 0 && s.now().Sub(r.CreatedAt) > s.ttl
}

// Reserve marks key as in flight unless a live record already exists, in which
// case that record is returned and reserved is false.
func (s *Store) Reserve(key, requestHash string) (existing *Record, reserved bool, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if raw := b.Get([]byte(key)); raw != nil {
			var r Record
			if err := json.Unmarshal(raw, &r); err != nil {
				return err
			}
			if !s.expired(&r) {
				existing = &r
				return nil
			}
		}

		data, err := json.Marshal(Record{
			Key:         key,
			RequestHash: requestHash,
			State:       StateInFlight,
			CreatedAt:   s.now().UTC(),
		})
		if err != nil {
			return err
		}
		reserved = true
		return b.Put([]byte(key), data)
	})
	return existing, reserved, err
}

// Complete stores the final response for a reserved key.
func (s *Store) Complete(key string, statusCode int, contentType string, body []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		raw := b.Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		r.State = StateCompleted
		r.StatusCode = statusCode
		r.ContentType = contentType
		r.Body = append([]byte(nil), body...)

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// Release forgets a key, letting the client retry. Missing keys are ignored.
func (s *Store) Release(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}

func (s *Store) Get(key string) (*Record, error) {
	var r Record
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		return json.Unmarshal(raw, &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Purge deletes expired records and reports how many were removed.
func (s *Store) Purge() (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil || s.expired(&r) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// RunPurger removes expired keys once at start and then every interval until
// ctx is done. A zero interval falls back to the TTL. Without a TTL nothing
// ever expires and it returns at once.
func (s *Store) RunPurger(ctx context.Context, interval time.Duration, log logger.ILogger) {
	if s.ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = s.ttl
	}

	purge := func() {
		n, err := s.Purge()
		if err != nil {
			log.Warn("IDEMPOTENCY", "Purge failed", map[string]interface{}{"error": err.Error()})
			return
		}
		if n > 0 {
			log.Debug("IDEMPOTENCY", "Purged expired keys", map[string]interface{}{"removed": n})
		}
	}

	purge()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}
