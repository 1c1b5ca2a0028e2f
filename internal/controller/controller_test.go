package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/pkg/refund"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type policyServiceMock struct {
	mock.Mock
}

func (m *policyServiceMock) Public(ctx context.Context) *dto.PublicRefundPoliciesResponse {
	return m.Called(ctx).Get(0).(*dto.PublicRefundPoliciesResponse)
}

func (m *policyServiceMock) List(ctx context.Context) ([]*dto.RefundPolicyResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*dto.RefundPolicyResponse), args.Error(1)
}

func (m *policyServiceMock) Create(ctx context.Context, adminId uuid.UUID, req *dto.RefundPolicyRequest) (*dto.RefundPolicyResponse, error) {
	args := m.Called(ctx, adminId, req)
	return args.Get(0).(*dto.RefundPolicyResponse), args.Error(1)
}

func (m *policyServiceMock) Update(ctx context.Context, adminId, policyId uuid.UUID, req *dto.RefundPolicyRequest) (*dto.RefundPolicyResponse, error) {
	args := m.Called(ctx, adminId, policyId, req)
	return args.Get(0).(*dto.RefundPolicyResponse), args.Error(1)
}

func (m *policyServiceMock) Delete(ctx context.Context, adminId, policyId uuid.UUID) error {
	return m.Called(ctx, adminId, policyId).Error(0)
}

func (m *policyServiceMock) Validate(req *dto.ValidateBandsRequest) *dto.ValidateBandsResponse {
	return m.Called(req).Get(0).(*dto.ValidateBandsResponse)
}

func newTestApp(svc *policyServiceMock) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler(logger.NewNopLogger())})
	NewRefundPolicyController(svc).RegisterRoutes(app.Group("/api"), NewMiddleware(testSecret, nil))
	return app
}

func token(t *testing.T, role string) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	tok, err := serverutils.IssueToken(testSecret, id, role, time.Hour)
	require.NoError(t, err)
	return id, tok
}

func call(t *testing.T, app *fiber.App, method, path, tok, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestPublicPoliciesNeedNoAuth(t *testing.T) {
	svc := &policyServiceMock{}
	svc.On("Public", mock.Anything).Return(&dto.PublicRefundPoliciesResponse{
		Traveler: refund.PolicySet{Role: refund.RoleTraveler, Source: refund.SourceDefault, Bands: refund.DefaultBands()},
	})

	status, body := call(t, newTestApp(svc), "GET", "/api/refund-policies", "", "")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, `"role":"traveler"`)
}

func TestAdminPolicyRoutesAreGuarded(t *testing.T) {
	svc := &policyServiceMock{}
	app := newTestApp(svc)

	status, _ := call(t, app, "GET", "/api/admin/refund-policies", "", "")
	assert.Equal(t, 401, status)

	_, travelerTok := token(t, "traveler")
	status, _ = call(t, app, "GET", "/api/admin/refund-policies", travelerTok, "")
	assert.Equal(t, 403, status)

	svc.AssertNotCalled(t, "List", mock.Anything)
}

func TestCreatePolicy(t *testing.T) {
	svc := &policyServiceMock{}
	app := newTestApp(svc)
	adminId, adminTok := token(t, "admin")

	svc.On("Create", mock.Anything, adminId, mock.MatchedBy(func(req *dto.RefundPolicyRequest) bool {
		return req.DaysBeforeStart == 7 && req.RefundPercentage == 60 && req.ApplicableTo == "guide"
	})).Return(&dto.RefundPolicyResponse{}, nil)

	status, body := call(t, app, "POST", "/api/admin/refund-policies", adminTok,
		`{"days_before_start":7,"days_before_end":13,"refund_percentage":60,"applicable_to":"guide"}`)
	assert.Equal(t, 201, status, body)
	svc.AssertExpectations(t)
}

func TestCreatePolicyValidation(t *testing.T) {
	svc := &policyServiceMock{}
	app := newTestApp(svc)
	_, adminTok := token(t, "admin")

	t.Run("malformed json", func(t *testing.T) {
		status, body := call(t, app, "POST", "/api/admin/refund-policies", adminTok, `{"days_before_start":`)
		assert.Equal(t, 400, status)
		assert.Contains(t, body, "invalid request body")
	})

	t.Run("tag validation", func(t *testing.T) {
		status, body := call(t, app, "POST", "/api/admin/refund-policies", adminTok,
			`{"days_before_start":0,"refund_percentage":150,"applicable_to":"everyone"}`)
		assert.Equal(t, 400, status)

		var res serverutils.BaseResponse[any]
		require.NoError(t, json.Unmarshal([]byte(body), &res))
		assert.Contains(t, res.Errors, "refund_percentage")
		assert.Contains(t, res.Errors, "applicable_to")
	})

	t.Run("bad id", func(t *testing.T) {
		status, _ := call(t, app, "DELETE", "/api/admin/refund-policies/not-a-uuid", adminTok, "")
		assert.Equal(t, 400, status)
	})

	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestPagedNeverReturnsNullItems(t *testing.T) {
	res := paged[string]("empty", nil, 0, 1, 10)
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
}

func TestPageParamsClamp(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		page, limit := pageParams(ctx)
		return ctx.JSON(fiber.Map{"page": page, "limit": limit})
	})

	_, body := call(t, app, "GET", "/?page=0&limit=1000", "", "")
	assert.JSONEq(t, `{"page":1,"limit":100}`, body)
}
