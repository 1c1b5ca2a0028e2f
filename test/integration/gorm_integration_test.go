package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/pkg/fieldcrypt"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	uow := h.uow.NewUnitOfWork(ctx)

	sqlDB, err := h.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())

	// Count implies the table and its columns exist
	t.Run("Tables are migrated", func(t *testing.T) {
		_, err := uow.UserRepository().Count(ctx)
		assert.NoError(t, err)
		_, err = uow.TripRepository().Count(ctx)
		assert.NoError(t, err)
		_, err = uow.PaymentRepository().Count(ctx)
		assert.NoError(t, err)
		_, err = uow.CancellationRepository().Count(ctx)
		assert.NoError(t, err)
		_, err = uow.RefundPolicyRepository().FindAll(ctx, specification.Pagination{Limit: 1})
		assert.NoError(t, err)
	})

	t.Run("Sensitive fields are encrypted at rest", func(t *testing.T) {
		if h.cfg.Crypto.FieldKey == "" {
			t.Skip("FIELD_ENCRYPTION_KEY not set")
		}
		phone := "010-1234-5678"
		id := uuid.New()
		user := &entity.User{
			Id:        id,
			Email:     "it-crypt-" + id.String()[:8] + "@example.com",
			FullName:  "Crypt Check",
			Role:      entity.UserRoleGuide,
			Status:    entity.UserStatusActive,
			Phone:     &phone,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		require.NoError(t, uow.UserRepository().Create(ctx, user))
		t.Cleanup(func() { h.db.Unscoped().Delete(&model.User{}, "id = ?", id) })

		var raw model.User
		require.NoError(t, h.db.First(&raw, "id = ?", id).Error)
		require.NotNil(t, raw.Phone)
		assert.True(t, fieldcrypt.IsEncrypted(*raw.Phone))

		loaded, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
		require.NoError(t, err)
		require.NotNil(t, loaded.Phone)
		assert.Equal(t, phone, *loaded.Phone)
	})

	t.Run("Public refund policies", func(t *testing.T) {
		resp, body := h.do(t, "GET", "/api/refund-policies", "", nil)
		require.Equal(t, 200, resp.StatusCode, string(body))

		var result serverutils.BaseResponse[dto.PublicRefundPoliciesResponse]
		require.NoError(t, json.Unmarshal(body, &result))
		assert.Equal(t, refund.RoleTraveler, result.Data.Traveler.Role)
		assert.NotEmpty(t, result.Data.Traveler.Bands)
		assert.NoError(t, refund.ValidateBands(result.Data.Guide.Bands))
		assert.NotEmpty(t, result.Data.ExceptionReasons)
	})
}
