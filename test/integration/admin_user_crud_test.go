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

func adminToken(t *testing.T, h *harness) string {
	t.Helper()
	admin := h.seedUser(t, entity.UserRoleAdmin, entity.UserStatusActive)

	resp, body := h.do(t, "POST", "/api/admin/login", "", dto.LoginRequest{Email: admin.Email, Password: testPassword})
	require.Equal(t, 200, resp.StatusCode, string(body))

	var result serverutils.BaseResponse[dto.AuthResponse]
	require.NoError(t, json.Unmarshal(body, &result))
	return result.Data.Token
}

func TestAdminUserManagement(t *testing.T) {
	h := newHarness(t)
	token := adminToken(t, h)
	guide := h.seedUser(t, entity.UserRoleGuide, entity.UserStatusActive)

	t.Run("Search users", func(t *testing.T) {
		resp, body := h.do(t, "GET", "/api/admin/users?q="+guide.Email, token, nil)
		require.Equal(t, 200, resp.StatusCode, string(body))

		var result serverutils.BaseResponse[serverutils.PagedData[dto.AdminUserListResponse]]
		require.NoError(t, json.Unmarshal(body, &result))
		require.Len(t, result.Data.Items, 1)
		assert.Equal(t, guide.Id, result.Data.Items[0].Id)
		assert.Equal(t, "guide", result.Data.Items[0].Role)
	})

	t.Run("Get user detail", func(t *testing.T) {
		resp, _ := h.do(t, "GET", "/api/admin/users/"+guide.Id.String(), token, nil)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Block user prevents login", func(t *testing.T) {
		resp, body := h.do(t, "PUT", "/api/admin/users/"+guide.Id.String()+"/status", token,
			dto.AdminUpdateUserStatusRequest{Status: "blocked"})
		require.Equal(t, 200, resp.StatusCode, string(body))

		resp, _ = h.do(t, "POST", "/api/auth/login", "", dto.LoginRequest{Email: guide.Email, Password: testPassword})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Reject unknown status", func(t *testing.T) {
		resp, _ := h.do(t, "PUT", "/api/admin/users/"+guide.Id.String()+"/status", token,
			dto.AdminUpdateUserStatusRequest{Status: "deleted"})
		assert.Equal(t, 400, resp.StatusCode)
	})
}
