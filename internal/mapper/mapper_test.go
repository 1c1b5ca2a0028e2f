package mapper

import (
	"encoding/base64"
	"strings"
	"testing"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/pkg/fieldcrypt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMapperEncryptsSensitiveFields(t *testing.T) {
	cipher, err := fieldcrypt.New(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("m", 32))))
	require.NoError(t, err)
	m := NewUserMapper(cipher)

	phone := "010-9876-5432"
	payout := "KB 123-456-789"
	u := &entity.User{Id: uuid.New(), Email: "g@example.com", Role: entity.UserRoleGuide, Phone: &phone, PayoutAccount: &payout}

	stored, err := m.ToModel(u)
	require.NoError(t, err)
	assert.True(t, fieldcrypt.IsEncrypted(*stored.Phone))
	assert.True(t, fieldcrypt.IsEncrypted(*stored.PayoutAccount))
	assert.Equal(t, "guide", stored.Role)

	back, err := m.ToEntity(stored)
	require.NoError(t, err)
	assert.Equal(t, phone, *back.Phone)
	assert.Equal(t, payout, *back.PayoutAccount)
	assert.Equal(t, entity.UserRoleGuide, back.Role)
}

func TestUserMapperReadsLegacyPlaintext(t *testing.T) {
	cipher, err := fieldcrypt.New(base64.StdEncoding.EncodeToString([]byte(strings.Repeat("m", 32))))
	require.NoError(t, err)

	plain := "010-1111-2222"
	u, err := NewUserMapper(cipher).ToEntity(&model.User{Phone: &plain})
	require.NoError(t, err)
	assert.Equal(t, plain, *u.Phone)
}

func TestCancellationFinalRefundAmount(t *testing.T) {
	c := NewCancellationMapper().ToEntity(&model.CancellationRequest{CalculatedRefund: 90000, Status: "pending"})
	assert.Equal(t, int64(90000), c.FinalRefundAmount())
	assert.True(t, c.IsPending())

	override := int64(50000)
	c.ActualRefundAmount = &override
	assert.Equal(t, int64(50000), c.FinalRefundAmount())
	assert.Equal(t, &override, NewCancellationMapper().ToModel(c).ActualRefundAmount)
}
