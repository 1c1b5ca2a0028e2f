// Package mocks holds testify mocks for the repository contracts and the unit
// of work.
package mocks

import (
	"context"

	"matchtrip-be/internal/repository/contract"
	"matchtrip-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/mock"
)

type MockRepositoryFactory struct {
	UoW *MockUnitOfWork
}

func (f *MockRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.UoW
}

// MockUnitOfWork mocks Begin/Commit/Rollback and hands out the repository
// mocks stored on it. Rollback is a no-op unless an expectation is set.
type MockUnitOfWork struct {
	mock.Mock

	Users         *MockUserRepository
	Trips         *MockTripRepository
	Offers        *MockOfferRepository
	Payments      *MockPaymentRepository
	Cancellations *MockCancellationRepository
	Policies      *MockRefundPolicyRepository
	AuditLogs     *MockAuditLogRepository
	Messages      *MockMessageRepository
	Reviews       *MockReviewRepository
	Notifications *MockNotificationRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Users:         new(MockUserRepository),
		Trips:         new(MockTripRepository),
		Offers:        new(MockOfferRepository),
		Payments:      new(MockPaymentRepository),
		Cancellations: new(MockCancellationRepository),
		Policies:      new(MockRefundPolicyRepository),
		AuditLogs:     new(MockAuditLogRepository),
		Messages:      new(MockMessageRepository),
		Reviews:       new(MockReviewRepository),
		Notifications: new(MockNotificationRepository),
	}
}

// ExpectTransaction allows Begin and Commit once each.
func (u *MockUnitOfWork) ExpectTransaction() {
	u.On("Begin", mock.Anything).Return(nil).Once()
	u.On("Commit").Return(nil).Once()
}

func (u *MockUnitOfWork) Begin(ctx context.Context) error {
	return u.Called(ctx).Error(0)
}

func (u *MockUnitOfWork) Commit() error {
	return u.Called().Error(0)
}

func (u *MockUnitOfWork) Rollback() error {
	for _, c := range u.ExpectedCalls {
		if c.Method == "Rollback" {
			return u.Called().Error(0)
		}
	}
	return nil
}

func (u *MockUnitOfWork) UserRepository() contract.UserRepository                 { return u.Users }
func (u *MockUnitOfWork) TripRepository() contract.TripRepository                 { return u.Trips }
func (u *MockUnitOfWork) OfferRepository() contract.OfferRepository               { return u.Offers }
func (u *MockUnitOfWork) PaymentRepository() contract.PaymentRepository           { return u.Payments }
func (u *MockUnitOfWork) CancellationRepository() contract.CancellationRepository { return u.Cancellations }
func (u *MockUnitOfWork) RefundPolicyRepository() contract.RefundPolicyRepository { return u.Policies }
func (u *MockUnitOfWork) AuditLogRepository() contract.AuditLogRepository         { return u.AuditLogs }
func (u *MockUnitOfWork) MessageRepository() contract.MessageRepository           { return u.Messages }
func (u *MockUnitOfWork) ReviewRepository() contract.ReviewRepository             { return u.Reviews }
func (u *MockUnitOfWork) NotificationRepository() contract.NotificationRepository { return u.Notifications }

// AssertAll checks expectations on the unit of work and every repository.
func (u *MockUnitOfWork) AssertAll(t mock.TestingT) {
	u.AssertExpectations(t)
	u.Users.AssertExpectations(t)
	u.Trips.AssertExpectations(t)
	u.Offers.AssertExpectations(t)
	u.Payments.AssertExpectations(t)
	u.Cancellations.AssertExpectations(t)
	u.Policies.AssertExpectations(t)
	u.AuditLogs.AssertExpectations(t)
	u.Messages.AssertExpectations(t)
	u.Reviews.AssertExpectations(t)
	u.Notifications.AssertExpectations(t)
}
