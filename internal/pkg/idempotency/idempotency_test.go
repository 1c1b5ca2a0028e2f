package idempotency

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "idem.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReserveCompleteReplay(t *testing.T) {
	s := openTestStore(t, time.Hour)

	existing, reserved, err := s.Reserve("k1", "h1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Nil(t, existing)

	existing, reserved, err = s.Reserve("k1", "h1")
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, StateInFlight, existing.State)

	require.NoError(t, s.Complete("k1", 201, "application/json", []byte(`{"ok":true}`)))
	rec, err := s.Get("k1")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, rec.State)
	assert.Equal(t, 201, rec.StatusCode)

	require.NoError(t, s.Release("k1"))
	require.NoError(t, s.Release("k1"))
	_, err = s.Get("k1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExpiredRecordsAreReplacedAndPurged(t *testing.T) {
	s := openTestStore(t, time.Minute)
	clock := time.Now()
	s.now = func() time.Time { return clock }

	_, _, err := s.Reserve("old", "h")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, reserved, err := s.Reserve("old", "other")
	require.NoError(t, err)
	assert.True(t, reserved)

	_, _, err = s.Reserve("stale", "h")
	require.NoError(t, err)
	clock = clock.Add(2 * time.Minute)

	n, err := s.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunPurgerRemovesExpiredKeys(t *testing.T) {
	s := openTestStore(t, time.Minute)
	start := time.Now()
	s.now = func() time.Time { return start }

	_, _, err := s.Reserve("expired", "h")
	require.NoError(t, err)
	later := start.Add(2 * time.Minute)
	s.now = func() time.Time { return later }
	_, _, err = s.Reserve("fresh", "h")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunPurger(ctx, 10*time.Millisecond, logger.NewNopLogger())
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := s.Get("expired")
		return err == ErrNotFound
	}, time.Second, 5*time.Millisecond)
	_, err = s.Get("fresh")
	assert.NoError(t, err)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger did not stop after cancel")
	}
}

func TestRunPurgerWithoutTTLReturns(t *testing.T) {
	s := openTestStore(t, 0)
	done := make(chan struct{})
	go func() {
		s.RunPurger(context.Background(), time.Millisecond, logger.NewNopLogger())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger should not run without a ttl")
	}
}

func TestMiddlewareReplaysResponse(t *testing.T) {
	s := openTestStore(t, time.Hour)
	var calls int32

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(logger.NewNopLogger())})
	app.Post("/checkout", Middleware(s, logger.NewNopLogger()), func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&calls, 1)
		return c.Status(201).JSON(fiber.Map{"call": n})
	})

	send := func(body string) (int, string, string) {
		req := httptest.NewRequest("POST", "/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderKey, "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b), resp.Header.Get(HeaderReplayed)
	}

	status, body, replayed := send(`{"offer_id":"1"}`)
	assert.Equal(t, 201, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Empty(t, replayed)

	status, body, replayed = send(`{"offer_id":"1"}`)
	assert.Equal(t, 201, status)
	assert.JSONEq(t, `{"call":1}`, body)
	assert.Equal(t, "true", replayed)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	status, _, _ = send(`{"offer_id":"2"}`)
	assert.Equal(t, 409, status)
}

func TestMiddlewareReleasesOnError(t *testing.T) {
	s := openTestStore(t, time.Hour)
	var calls int32

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(logger.NewNopLogger())})
	app.Post("/cancel", Middleware(s, logger.NewNopLogger()), func(c *fiber.Ctx) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return fiber.NewError(fiber.StatusBadRequest, "bad")
		}
		return c.SendStatus(201)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/cancel", strings.NewReader("{}"))
		req.Header.Set(HeaderKey, "retry-me")
		_, err := app.Test(req)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestMiddlewareWithoutHeader(t *testing.T) {
	s := openTestStore(t, time.Hour)
	app := fiber.New()
	app.Post("/x", Middleware(s, logger.NewNopLogger()), func(c *fiber.Ctx) error { return c.SendStatus(204) })

	resp, err := app.Test(httptest.NewRequest("POST", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
