package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"matchtrip-be/internal/bootstrap"
	"matchtrip-be/internal/config"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/pkg/fieldcrypt"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/internal/server"
	"matchtrip-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

type harness struct {
	cfg       *config.Config
	db        *gorm.DB
	uow       unitofwork.RepositoryFactory
	container *bootstrap.Container
	app       *fiber.App
}

// newHarness boots the full server against DB_CONNECTION_STRING. Optional
// infrastructure (NATS, Redis, Kafka) is left unset so only Postgres is needed.
func newHarness(t *testing.T) *harness {
	t.Helper()

	// Load .env from root (2 levels up) because tests run in package dir
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("No ../../.env: %v", err)
	}
	if os.Getenv("DB_CONNECTION_STRING") == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}
	if os.Getenv("JWT_SECRET") == "" {
		t.Setenv("JWT_SECRET", "integration_secret")
	}
	dir := t.TempDir()
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("STORAGE_LOCAL_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("IDEMPOTENCY_DB_PATH", filepath.Join(dir, "idempotency.db"))
	t.Setenv("LOG_FILE_PATH", filepath.Join(dir, "app.log"))
	t.Setenv("REALTIME_LOG_FILE_PATH", filepath.Join(dir, "realtime.log"))

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, false)
	require.NoError(t, err)

	cipher, err := fieldcrypt.New(cfg.Crypto.FieldKey)
	require.NoError(t, err)

	container, err := bootstrap.NewContainer(db, cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	return &harness{
		cfg:       cfg,
		db:        db,
		uow:       unitofwork.NewRepositoryFactory(db, cipher),
		container: container,
		app:       server.New(cfg, container).GetApp(),
	}
}

func (h *harness) seedUser(t *testing.T, role entity.UserRole, status entity.UserStatus) *entity.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	id := uuid.New()
	user := &entity.User{
		Id:           id,
		Email:        "it-" + id.String()[:8] + "@example.com",
		FullName:     "Integration " + string(role),
		PasswordHash: &hashStr,
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	ctx := context.Background()
	require.NoError(t, h.uow.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))
	t.Cleanup(func() {
		h.db.Unscoped().Delete(&model.User{}, "id = ?", id)
	})
	return user
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}
