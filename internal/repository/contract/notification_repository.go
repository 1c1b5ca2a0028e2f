package contract

import (
	"context"

	"matchtrip-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkAsRead only touches notifications owned by userID.
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error

	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	UpsertNotificationType(ctx context.Context, notifType *model.NotificationType) error
	// GetUserIDsByRole resolves ADMIN and ROLE targets to active user ids.
	GetUserIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
	GetPreference(ctx context.Context, userID uuid.UUID) (*model.UserNotificationPreference, error)
	SavePreference(ctx context.Context, pref *model.UserNotificationPreference) error
}
