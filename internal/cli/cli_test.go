package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"matchtrip-be/internal/entity"
	"matchtrip-be/pkg/refund"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBandFile(t *testing.T) {
	path := writeFile(t, `
role: traveler
bands:
  - days_from: 14
    percentage: 100
  - days_from: 0
    days_to: 13
    percentage: 40
`)

	f, err := loadBandFile(path)
	require.NoError(t, err)
	assert.Equal(t, refund.RoleTraveler, f.Role)
	require.Len(t, f.Bands, 2)
	assert.Nil(t, f.Bands[0].DaysTo)
	require.NotNil(t, f.Bands[1].DaysTo)
	assert.Equal(t, 13, *f.Bands[1].DaysTo)
	assert.NoError(t, refund.ValidateBands(f.Bands))
}

func TestLoadBandFileDefaultsRoleToAll(t *testing.T) {
	f, err := loadBandFile(writeFile(t, "bands:\n  - days_from: 0\n    percentage: 50\n"))
	require.NoError(t, err)
	assert.Equal(t, refund.RoleAll, f.Role)
}

func TestLoadBandFileRejectsBadInput(t *testing.T) {
	_, err := loadBandFile(writeFile(t, "role: admin\nbands:\n  - days_from: 0\n    percentage: 50\n"))
	assert.ErrorContains(t, err, "role must be")

	_, err = loadBandFile(writeFile(t, "role: all\n"))
	assert.ErrorContains(t, err, "no bands")

	_, err = loadBandFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExportedFileLoadsBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBandFile(&buf, &BandFile{Role: refund.RoleGuide, Bands: refund.DefaultBands()}))

	f, err := loadBandFile(writeFile(t, buf.String()))
	require.NoError(t, err)
	assert.Equal(t, refund.RoleGuide, f.Role)
	assert.Equal(t, refund.DefaultBands(), f.Bands)
}

func TestReportBandsListsProblems(t *testing.T) {
	to := 40
	var buf bytes.Buffer
	err := reportBands(&buf, &BandFile{Role: refund.RoleAll, Bands: []refund.Band{
		{DaysFrom: 30, Percentage: 100},
		{DaysFrom: 10, DaysTo: &to, Percentage: 120},
	}})

	require.Error(t, err)
	assert.Contains(t, buf.String(), "overlap")
	assert.Contains(t, buf.String(), "outside 0..100")
}

func TestQuote(t *testing.T) {
	t.Run("schedule band", func(t *testing.T) {
		var buf bytes.Buffer
		err := quote(&buf, quoteOptions{
			Amount: 100000, Start: "2026-03-10", Today: "2026-03-01",
			Role: "traveler", Currency: "KRW",
		})
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "Days until start: 9")
		assert.Contains(t, out, "85%")
		assert.Contains(t, out, "₩85,000 of ₩100,000")
	})

	t.Run("exception reason", func(t *testing.T) {
		var buf bytes.Buffer
		err := quote(&buf, quoteOptions{
			Amount: 100000, Start: "2026-03-01", Today: "2026-03-01",
			Role: "guide", Reason: "medical_emergency", Currency: "KRW",
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "100%")
	})

	t.Run("gap needs review", func(t *testing.T) {
		path := writeFile(t, "bands:\n  - days_from: 30\n    percentage: 100\n")
		var buf bytes.Buffer
		err := quote(&buf, quoteOptions{
			Amount: 50000, Start: "2026-03-05", Today: "2026-03-01",
			Role: "traveler", File: path, Currency: "KRW",
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "manual review")
	})

	t.Run("bad input", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, quote(&buf, quoteOptions{Amount: 1, Start: "03/01/2026", Role: "traveler"}))
		assert.Error(t, quote(&buf, quoteOptions{Amount: -1, Start: "2026-03-01", Role: "traveler"}))
		assert.Error(t, quote(&buf, quoteOptions{Amount: 1, Start: "2026-03-01", Role: "admin"}))
	})
}

func TestCheckCancellation(t *testing.T) {
	refunded := int64(120)
	payment := &entity.Payment{Id: uuid.New(), Amount: 100, Status: entity.PaymentStatusPaid}

	t.Run("missing payment", func(t *testing.T) {
		problems := checkCancellation(&entity.CancellationRequest{PaymentId: uuid.New()}, nil)
		require.Len(t, problems, 1)
		assert.Contains(t, problems[0], "not found")
	})

	t.Run("consistent", func(t *testing.T) {
		c := &entity.CancellationRequest{
			PaymentId: payment.Id, PaymentAmount: 100, CalculatedRefund: 80,
			Status: entity.CancellationStatusPending, RefundStatus: entity.RefundExecutionNone,
		}
		assert.Empty(t, checkCancellation(c, payment))
	})

	t.Run("refund larger than payment", func(t *testing.T) {
		c := &entity.CancellationRequest{
			PaymentId: payment.Id, PaymentAmount: 100, CalculatedRefund: 100,
			ActualRefundAmount: &refunded,
			Status:             entity.CancellationStatusApproved,
			RefundStatus:       entity.RefundExecutionCompleted,
		}
		problems := checkCancellation(c, payment)
		assert.Len(t, problems, 2)
		assert.Contains(t, problems[0], "actual refund 120")
		assert.Contains(t, problems[1], "payment is paid")
	})
}
