package mocks

import (
	"context"
	"time"

	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Finder methods pass specs as a single slice argument, so expectations use
// mock.Anything for it.

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	args := m.Called(ctx, specs)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	args := m.Called(ctx, specs)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	args := m.Called(ctx, specs)
	u, _ := args.Get(0).([]*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, userId uuid.UUID, avatarURL string) error {
	return m.Called(ctx, userId, avatarURL).Error(0)
}

func (m *MockUserRepository) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *MockUserRepository) FindByProvider(ctx context.Context, providerName, providerUserId string) (*entity.User, error) {
	args := m.Called(ctx, providerName, providerUserId)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type MockTripRepository struct{ mock.Mock }

func (m *MockTripRepository) Create(ctx context.Context, trip *entity.Trip) error {
	return m.Called(ctx, trip).Error(0)
}

func (m *MockTripRepository) Update(ctx context.Context, trip *entity.Trip) error {
	return m.Called(ctx, trip).Error(0)
}

func (m *MockTripRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Trip, error) {
	args := m.Called(ctx, specs)
	t, _ := args.Get(0).(*entity.Trip)
	return t, args.Error(1)
}

func (m *MockTripRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Trip, error) {
	args := m.Called(ctx, specs)
	t, _ := args.Get(0).([]*entity.Trip)
	return t, args.Error(1)
}

func (m *MockTripRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.TripStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockTripRepository) AddPhoto(ctx context.Context, photo *entity.TripPhoto) error {
	return m.Called(ctx, photo).Error(0)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, offer *entity.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *MockOfferRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Offer, error) {
	args := m.Called(ctx, specs)
	o, _ := args.Get(0).(*entity.Offer)
	return o, args.Error(1)
}

func (m *MockOfferRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Offer, error) {
	args := m.Called(ctx, specs)
	o, _ := args.Get(0).([]*entity.Offer)
	return o, args.Error(1)
}

func (m *MockOfferRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOfferRepository) RejectOthers(ctx context.Context, tripId, keepId uuid.UUID) (int64, error) {
	args := m.Called(ctx, tripId, keepId)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *MockPaymentRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error) {
	args := m.Called(ctx, specs)
	p, _ := args.Get(0).(*entity.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error) {
	args := m.Called(ctx, specs)
	p, _ := args.Get(0).([]*entity.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []entity.PaymentStatus, to entity.PaymentStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, paidAt)
	return args.Bool(0), args.Error(1)
}

type MockCancellationRepository struct{ mock.Mock }

func (m *MockCancellationRepository) Create(ctx context.Context, c *entity.CancellationRequest) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCancellationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationRequest, error) {
	args := m.Called(ctx, specs)
	c, _ := args.Get(0).(*entity.CancellationRequest)
	return c, args.Error(1)
}

func (m *MockCancellationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRequest, error) {
	args := m.Called(ctx, specs)
	c, _ := args.Get(0).([]*entity.CancellationRequest)
	return c, args.Error(1)
}

func (m *MockCancellationRepository) FindAllWithDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRequest, error) {
	args := m.Called(ctx, specs)
	c, _ := args.Get(0).([]*entity.CancellationRequest)
	return c, args.Error(1)
}

func (m *MockCancellationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCancellationRepository) Decide(ctx context.Context, c *entity.CancellationRequest) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

func (m *MockCancellationRepository) UpdateRefundExecution(ctx context.Context, c *entity.CancellationRequest) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCancellationRepository) ExistsActiveForPayment(ctx context.Context, paymentId uuid.UUID) (bool, error) {
	args := m.Called(ctx, paymentId)
	return args.Bool(0), args.Error(1)
}

type MockRefundPolicyRepository struct{ mock.Mock }

func (m *MockRefundPolicyRepository) Create(ctx context.Context, policy *entity.RefundPolicy) error {
	return m.Called(ctx, policy).Error(0)
}

func (m *MockRefundPolicyRepository) Update(ctx context.Context, policy *entity.RefundPolicy) error {
	return m.Called(ctx, policy).Error(0)
}

func (m *MockRefundPolicyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRefundPolicyRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RefundPolicy, error) {
	args := m.Called(ctx, specs)
	p, _ := args.Get(0).(*entity.RefundPolicy)
	return p, args.Error(1)
}

func (m *MockRefundPolicyRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RefundPolicy, error) {
	args := m.Called(ctx, specs)
	p, _ := args.Get(0).([]*entity.RefundPolicy)
	return p, args.Error(1)
}

func (m *MockRefundPolicyRepository) LockForWrite(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAuditLogRepository struct{ mock.Mock }

func (m *MockAuditLogRepository) Record(ctx context.Context, actorId uuid.UUID, action, entityType string, entityId uuid.UUID, details map[string]interface{}) error {
	return m.Called(ctx, actorId, action, entityType, entityId, details).Error(0)
}

type MockMessageRepository struct{ mock.Mock }

func (m *MockMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockMessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Message, error) {
	args := m.Called(ctx, specs)
	msg, _ := args.Get(0).(*entity.Message)
	return msg, args.Error(1)
}

func (m *MockMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	args := m.Called(ctx, specs)
	msgs, _ := args.Get(0).([]*entity.Message)
	return msgs, args.Error(1)
}

func (m *MockMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	args := m.Called(ctx, specs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Review, error) {
	args := m.Called(ctx, specs)
	r, _ := args.Get(0).(*entity.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Review, error) {
	args := m.Called(ctx, specs)
	r, _ := args.Get(0).([]*entity.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) RatingForGuide(ctx context.Context, guideId uuid.UUID) (*entity.GuideRating, error) {
	args := m.Called(ctx, guideId)
	r, _ := args.Get(0).(*entity.GuideRating)
	return r, args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) CreateNotification(ctx context.Context, n *model.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	n, _ := args.Get(0).([]model.Notification)
	return n, args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockNotificationRepository) GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error) {
	args := m.Called(ctx, code)
	t, _ := args.Get(0).(*model.NotificationType)
	return t, args.Error(1)
}

func (m *MockNotificationRepository) UpsertNotificationType(ctx context.Context, t *model.NotificationType) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockNotificationRepository) GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	args := m.Called(ctx, role)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *MockNotificationRepository) GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserNotificationPreference, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*model.UserNotificationPreference)
	return p, args.Error(1)
}

func (m *MockNotificationRepository) SavePreference(ctx context.Context, pref *model.UserNotificationPreference) error {
	return m.Called(ctx, pref).Error(0)
}
