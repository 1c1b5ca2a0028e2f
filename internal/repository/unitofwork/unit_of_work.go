package unitofwork

import (
	"context"

	"matchtrip-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TripRepository() contract.TripRepository
	OfferRepository() contract.OfferRepository
	PaymentRepository() contract.PaymentRepository
	CancellationRepository() contract.CancellationRepository
	RefundPolicyRepository() contract.RefundPolicyRepository
	AuditLogRepository() contract.AuditLogRepository
	MessageRepository() contract.MessageRepository
	ReviewRepository() contract.ReviewRepository
	NotificationRepository() contract.NotificationRepository
}
