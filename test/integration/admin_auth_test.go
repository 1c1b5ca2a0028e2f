package integration

import (
	"encoding/json"
	"testing"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminAuth(t *testing.T) {
	h := newHarness(t)
	admin := h.seedUser(t, entity.UserRoleAdmin, entity.UserStatusActive)
	traveler := h.seedUser(t, entity.UserRoleTraveler, entity.UserStatusActive)

	t.Run("Login as Admin success", func(t *testing.T) {
		resp, body := h.do(t, "POST", "/api/admin/login", "", dto.LoginRequest{Email: admin.Email, Password: testPassword})
		require.Equal(t, 200, resp.StatusCode, string(body))

		var result serverutils.BaseResponse[dto.AuthResponse]
		require.NoError(t, json.Unmarshal(body, &result))
		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Data.Token)
		assert.Equal(t, "admin", result.Data.User.Role)
	})

	t.Run("Login as Traveler denied", func(t *testing.T) {
		resp, _ := h.do(t, "POST", "/api/admin/login", "", dto.LoginRequest{Email: traveler.Email, Password: testPassword})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Invalid Password", func(t *testing.T) {
		resp, _ := h.do(t, "POST", "/api/admin/login", "", dto.LoginRequest{Email: admin.Email, Password: "wrongpassword"})
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Traveler token cannot reach admin routes", func(t *testing.T) {
		resp, body := h.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: traveler.Email, Password: testPassword})
		require.Equal(t, 200, resp.StatusCode, string(body))

		var result serverutils.BaseResponse[dto.AuthResponse]
		require.NoError(t, json.Unmarshal(body, &result))

		resp, _ = h.do(t, "GET", "/api/admin/dashboard", result.Data.Token, nil)
		assert.Equal(t, 403, resp.StatusCode)

		resp, _ = h.do(t, "GET", "/api/admin/dashboard", "", nil)
		assert.Equal(t, 401, resp.StatusCode)
	})
}
