package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/model"
	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/internal/pkg/mailer"
	"matchtrip-be/internal/pkg/serverutils"
	"matchtrip-be/internal/repository/specification"
	"matchtrip-be/internal/repository/unitofwork"
	"matchtrip-be/pkg/events"
	pktNats "matchtrip-be/pkg/nats" // Renamed to avoid collision
	"matchtrip-be/pkg/notify"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification target types.
const (
	TargetSelf      = "SELF"
	TargetAdmin     = "ADMIN"
	TargetRole      = "ROLE"
	TargetBroadcast = "BROADCAST"
)

// NotificationDurable is the JetStream consumer name of the worker.
const NotificationDurable = "notification-worker"

// NotificationDelivery pushes real-time updates. Implemented by the
// WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, kind string, data interface{})
	Broadcast(kind string, data interface{})
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// DefaultNotificationTypes is the registry seeded by cmd/migrate.
func DefaultNotificationTypes() []model.NotificationType {
	return []model.NotificationType{
		{Code: events.CancellationRequested, DisplayName: "New cancellation request", Template: "A {requester_role} asked to cancel \"{trip_title}\". Estimated refund: {refund_amount}.", TargetType: TargetAdmin, Priority: model.PriorityHigh},
		{Code: events.CancellationApproved, DisplayName: "Cancellation approved", Template: "Your cancellation of \"{trip_title}\" was approved. Refund: {refund_amount}.", TargetType: TargetSelf, Priority: model.PriorityHigh},
		{Code: events.CancellationRejected, DisplayName: "Cancellation rejected", Template: "Your cancellation of \"{trip_title}\" was rejected. {admin_notes}", TargetType: TargetSelf, Priority: model.PriorityHigh},
		{Code: events.RefundCompleted, DisplayName: "Refund completed", Template: "Your refund of {refund_amount} for \"{trip_title}\" is complete.", TargetType: TargetSelf},
		{Code: events.RefundFailed, DisplayName: "Refund failed", Template: "We could not refund \"{trip_title}\". Our team has been notified.", TargetType: TargetSelf, Priority: model.PriorityHigh},
		{Code: events.OfferAccepted, DisplayName: "Offer accepted", Template: "Your offer for \"{trip_title}\" was accepted.", TargetType: TargetSelf},
		{Code: events.PaymentPaid, DisplayName: "Payment received", Template: "Payment {order_id} of {amount} was received.", TargetType: TargetSelf},
		{Code: events.MessageSent, DisplayName: "New message", Template: "{body}", TargetType: TargetSelf, Priority: model.PriorityLow},
	}
}

// alimtalkTemplates maps events to the KakaoTalk template sent to the SELF
// recipient.
var alimtalkTemplates = map[string]string{
	events.PaymentPaid:          notify.TemplatePaymentPaid,
	events.OfferAccepted:        notify.TemplateOfferAccepted,
	events.CancellationApproved: notify.TemplateCancellationApproved,
	events.CancellationRejected: notify.TemplateCancellationRejected,
	events.RefundCompleted:      notify.TemplateRefundCompleted,
}

type INotificationService interface {
	Start(ctx context.Context) error
	HandleEvent(ctx context.Context, event events.Event) error

	GetNotifications(ctx context.Context, userID uuid.UUID, page, limit int) ([]*dto.NotificationResponse, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	GetPreferences(ctx context.Context, userID uuid.UUID) (*dto.NotificationPreferenceResponse, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, req *dto.NotificationPreferenceRequest) (*dto.NotificationPreferenceResponse, error)
}

type NotificationService struct {
	uowFactory   unitofwork.RepositoryFactory
	subscriber   EventSubscriber
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	dispatcher   notify.Dispatcher
	logger       logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	sub EventSubscriber,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	dispatcher notify.Dispatcher,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		uowFactory:   uowFactory,
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		dispatcher:   dispatcher,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, events.SubjectPrefix+">", NotificationDurable, s.HandleEvent); err != nil {
		s.logger.Error("NOTIFICATION", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NOTIFICATION", "Notification worker listening to events.>", nil)
	return nil
}

// HandleEvent fans one domain event out to in-app notifications, realtime
// pushes, email and KakaoTalk. Only repository failures are returned so the
// bus redelivers; channel failures are logged.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := event.EventType()
	payload := event.Payload()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	s.logger.Debug("NOTIFICATION", "Processing event", map[string]interface{}{"type": typeCode})

	// 1. Realtime status frames for the affected user
	if uid, ok := payloadUUID(payload, "user_id"); ok && s.delivery != nil {
		s.delivery.Send(uid, "event", map[string]interface{}{"type": typeCode, "data": payload})
	}

	// 2. Out-of-band channels
	s.sendEmail(ctx, uow, typeCode, payload)
	s.sendAlimtalk(ctx, uow, typeCode, payload)

	// 3. In-app notification from the registry
	config, err := uow.NotificationRepository().GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		return err
	}
	if config == nil {
		s.logger.Debug("NOTIFICATION", "No active notification type", map[string]interface{}{"code": typeCode})
		return nil
	}

	if config.TargetType == TargetBroadcast {
		// push only, nothing persisted per user
		if s.delivery != nil {
			s.delivery.Broadcast("notification", toNotificationResponse(s.buildNotification(uuid.Nil, config, payload)))
		}
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, uow, config, payload)
	if err != nil {
		s.logger.Error("NOTIFICATION", "Error resolving recipients", map[string]interface{}{"type": typeCode, "error": err.Error()})
		return err
	}

	for _, userID := range recipients {
		pref, err := uow.NotificationRepository().GetPreference(ctx, userID)
		if err != nil {
			return err
		}
		if isMuted(pref, config.Code) {
			continue
		}

		notif := s.buildNotification(userID, config, payload)
		if err := uow.NotificationRepository().CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NOTIFICATION", "Error saving notification", map[string]interface{}{
				"userId": userID.String(),
				"error":  err.Error(),
			})
			continue
		}
		if s.delivery != nil {
			s.delivery.Send(userID, "notification", toNotificationResponse(notif))
		}
	}

	return nil
}

func isMuted(pref *model.UserNotificationPreference, code string) bool {
	if pref == nil {
		return false
	}
	for _, m := range pref.MutedTypes {
		if m == code {
			return true
		}
	}
	return false
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(events.String(payload, key))
	return id, err == nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, uow unitofwork.UnitOfWork, config *model.NotificationType, payload map[string]interface{}) ([]uuid.UUID, error) {
	switch config.TargetType {
	case TargetSelf:
		if uid, ok := payloadUUID(payload, "user_id"); ok {
			return []uuid.UUID{uid}, nil
		}
		s.logger.Warn("NOTIFICATION", "TargetType SELF but no user_id in payload", map[string]interface{}{"code": config.Code})
		return nil, nil
	case TargetAdmin:
		return uow.NotificationRepository().GetUserIDsByRole(ctx, string(entity.UserRoleAdmin))
	case TargetRole:
		return uow.NotificationRepository().GetUserIDsByRole(ctx, config.TargetRole)
	}
	return nil, nil
}

// renderTemplate replaces {key} placeholders with payload values.
func renderTemplate(template string, payload map[string]interface{}) string {
	msg := template
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return strings.TrimSpace(msg)
}

func (s *NotificationService) buildNotification(userID uuid.UUID, config *model.NotificationType, payload map[string]interface{}) model.Notification {
	var actorID *uuid.UUID
	if aid, ok := payloadUUID(payload, "sender_id"); ok {
		actorID = &aid
	}

	entityType := events.String(payload, "entity_type")
	var entityID *uuid.UUID
	if eid, ok := payloadUUID(payload, "entity_id"); ok {
		entityID = &eid
	}

	// Metadata carries the payload plus a deep link
	metaMap := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		metaMap[k] = v
	}
	if entityType != "" && entityID != nil {
		metaMap["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID.String())
	}
	metaJSON, _ := json.Marshal(metaMap)

	priority := config.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	return model.Notification{
		ID:         uuid.New(),
		UserID:     userID,
		ActorID:    actorID,
		TypeCode:   config.Code,
		Priority:   priority,
		Title:      config.DisplayName,
		Message:    renderTemplate(config.Template, payload),
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}
}

func (s *NotificationService) sendEmail(ctx context.Context, uow unitofwork.UnitOfWork, typeCode string, payload map[string]interface{}) {
	if s.emailService == nil {
		return
	}
	var send func(string, mailer.CancellationMail) error
	status := events.String(payload, "status")
	switch typeCode {
	case events.CancellationApproved, events.CancellationRejected:
		send = s.emailService.SendCancellationDecision
	case events.RefundCompleted:
		send, status = s.emailService.SendRefundResult, string(entity.RefundExecutionCompleted)
	case events.RefundFailed:
		send, status = s.emailService.SendRefundResult, string(entity.RefundExecutionFailed)
	default:
		return
	}

	user := s.recipient(ctx, uow, payload)
	if user == nil {
		return
	}
	if pref, err := uow.NotificationRepository().GetPreference(ctx, user.Id); err == nil && pref != nil && !pref.EmailEnabled {
		return
	}

	mail := mailer.CancellationMail{
		FullName:     user.FullName,
		TripTitle:    events.String(payload, "trip_title"),
		Status:       status,
		Percentage:   int(events.Int64(payload, "percentage")),
		RefundAmount: events.Int64(payload, "refund_amount"),
		Currency:     events.String(payload, "currency"),
		AdminNotes:   events.String(payload, "admin_notes"),
	}
	if err := send(user.Email, mail); err != nil {
		s.logger.Warn("NOTIFICATION", "Email delivery failed", map[string]interface{}{"type": typeCode, "error": err.Error()})
	}
}

func (s *NotificationService) sendAlimtalk(ctx context.Context, uow unitofwork.UnitOfWork, typeCode string, payload map[string]interface{}) {
	template, ok := alimtalkTemplates[typeCode]
	if !ok || s.dispatcher == nil {
		return
	}
	user := s.recipient(ctx, uow, payload)
	if user == nil || user.Phone == nil || *user.Phone == "" {
		return
	}
	if pref, err := uow.NotificationRepository().GetPreference(ctx, user.Id); err == nil && pref != nil && !pref.PushEnabled {
		return
	}

	vars := make(map[string]string, len(payload))
	for k, v := range payload {
		vars[k] = fmt.Sprintf("%v", v)
	}
	vars["full_name"] = user.FullName

	if err := s.dispatcher.Dispatch(ctx, notify.Message{
		RecipientID:  user.Id,
		Phone:        *user.Phone,
		TemplateCode: template,
		Variables:    vars,
		SMSFallback:  true,
	}); err != nil {
		s.logger.Warn("NOTIFICATION", "Alimtalk dispatch failed", map[string]interface{}{"type": typeCode, "error": err.Error()})
	}
}

func (s *NotificationService) recipient(ctx context.Context, uow unitofwork.UnitOfWork, payload map[string]interface{}) *entity.User {
	uid, ok := payloadUUID(payload, "user_id")
	if !ok {
		return nil
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: uid})
	if err != nil || user == nil {
		return nil
	}
	return user
}

func toNotificationResponse(n model.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		Id:         n.ID,
		TypeCode:   n.TypeCode,
		Priority:   string(n.Priority),
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityId:   n.EntityID,
		Metadata:   json.RawMessage(n.Metadata),
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

// GetNotifications fetches a page of a user's notifications, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, page, limit int) ([]*dto.NotificationResponse, int64, error) {
	_, limit, offset := serverutils.NormalizePage(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, total, err := uow.NotificationRepository().GetNotificationsByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	res := make([]*dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		res = append(res, toNotificationResponse(n))
	}
	return res, total, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().GetUnreadCount(ctx, userID)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAsRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllAsRead(ctx, userID)
}

func preferenceResponse(p *model.UserNotificationPreference) *dto.NotificationPreferenceResponse {
	muted := []string(p.MutedTypes)
	if muted == nil {
		muted = []string{}
	}
	return &dto.NotificationPreferenceResponse{
		MutedTypes:   muted,
		EmailEnabled: p.EmailEnabled,
		PushEnabled:  p.PushEnabled,
	}
}

func (s *NotificationService) loadPreference(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID) (*model.UserNotificationPreference, error) {
	pref, err := uow.NotificationRepository().GetPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = &model.UserNotificationPreference{UserID: userID, EmailEnabled: true, PushEnabled: true}
	}
	return pref, nil
}

func (s *NotificationService) GetPreferences(ctx context.Context, userID uuid.UUID) (*dto.NotificationPreferenceResponse, error) {
	pref, err := s.loadPreference(ctx, s.uowFactory.NewUnitOfWork(ctx), userID)
	if err != nil {
		return nil, err
	}
	return preferenceResponse(pref), nil
}

func (s *NotificationService) UpdatePreferences(ctx context.Context, userID uuid.UUID, req *dto.NotificationPreferenceRequest) (*dto.NotificationPreferenceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pref, err := s.loadPreference(ctx, uow, userID)
	if err != nil {
		return nil, err
	}
	if req.MutedTypes != nil {
		pref.MutedTypes = datatypes.JSONSlice[string](req.MutedTypes)
	}
	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if req.PushEnabled != nil {
		pref.PushEnabled = *req.PushEnabled
	}
	pref.UpdatedAt = time.Now()
	if err := uow.NotificationRepository().SavePreference(ctx, pref); err != nil {
		return nil, err
	}
	return preferenceResponse(pref), nil
}
