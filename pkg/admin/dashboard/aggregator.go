package dashboard

import (
	"context"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	adminMapper "matchtrip-be/pkg/admin/mapper"
)

// zap ISO8601TimeEncoder layout
const logTimeLayout = "2006-01-02T15:04:05.000Z0700"

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	stats := &dto.AdminDashboardStats{}
	var err error

	if stats.TotalUsers, err = uow.UserRepository().Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalGuides, err = uow.UserRepository().Count(ctx, specification.ByRole{Role: string(entity.UserRoleGuide)}); err != nil {
		return nil, err
	}
	if stats.OpenTrips, err = uow.TripRepository().Count(ctx, specification.ByStatus{Status: string(entity.TripStatusOpen)}); err != nil {
		return nil, err
	}
	if stats.PaidPayments, err = uow.PaymentRepository().Count(ctx, specification.ByStatus{Status: string(entity.PaymentStatusPaid)}); err != nil {
		return nil, err
	}
	if stats.PendingCancellations, err = uow.CancellationRepository().Count(ctx, specification.ByStatus{Status: string(entity.CancellationStatusPending)}); err != nil {
		return nil, err
	}
	if stats.NeedsReview, err = uow.CancellationRepository().Count(ctx,
		specification.ByStatus{Status: string(entity.CancellationStatusPending)},
		specification.Filter("needs_review", true),
	); err != nil {
		return nil, err
	}

	// Recent payments are best effort
	recent, err := uow.PaymentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: 5},
	)
	if err != nil {
		a.logger.Warn("ADMIN", "Failed to load recent payments", map[string]interface{}{"error": err.Error()})
	}
	for _, p := range recent {
		stats.RecentPayments = append(stats.RecentPayments, adminMapper.PaymentToResponse(p))
	}

	return stats, nil
}

// GetSystemLogs pages through the JSON log file, newest first.
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, page, limit int, level, module string) ([]*dto.LogListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	logs, err := loggerSvc.GetLogs(logger.LogFilter{Level: level, Module: module}, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(logs))
	for _, l := range logs {
		ts, _ := time.Parse(logTimeLayout, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(logTimeLayout, l.Timestamp)
	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}
