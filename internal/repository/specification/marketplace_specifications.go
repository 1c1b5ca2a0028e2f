package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type StatusIn struct {
	Statuses []string
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

type ByTrip struct {
	TripID uuid.UUID
}

func (s ByTrip) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("trip_id = ?", s.TripID)
}

type ByGuide struct {
	GuideID uuid.UUID
}

func (s ByGuide) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("guide_id = ?", s.GuideID)
}

type ByPayment struct {
	PaymentID uuid.UUID
}

func (s ByPayment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_id = ?", s.PaymentID)
}

type ByOrderID struct {
	OrderID string
}

func (s ByOrderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("order_id = ?", s.OrderID)
}

type ByOffer struct {
	OfferID uuid.UUID
}

func (s ByOffer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("offer_id = ?", s.OfferID)
}

type ByRequester struct {
	UserID uuid.UUID
}

func (s ByRequester) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requester_id = ?", s.UserID)
}

// PaymentParticipant matches payments where the user is traveler or guide.
type PaymentParticipant struct {
	UserID uuid.UUID
}

func (s PaymentParticipant) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("traveler_id = ? OR guide_id = ?", s.UserID, s.UserID)
}

// CreatedBefore matches rows created strictly before T.
type CreatedBefore struct {
	T time.Time
}

func (s CreatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at < ?", s.T)
}

type StartingAfter struct {
	T time.Time
}

func (s StartingAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("start_date > ?", s.T)
}

type DestinationLike struct {
	Query string
}

func (s DestinationLike) Apply(db *gorm.DB) *gorm.DB {
	if s.Query == "" {
		return db
	}
	return db.Where("destination ILIKE ?", "%"+s.Query+"%")
}

// ActivePoliciesFor selects active refund bands for a role, including rows
// that apply to everyone.
type ActivePoliciesFor struct {
	Role string
}

func (s ActivePoliciesFor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ? AND applicable_to IN ?", true, []string{s.Role, "all"})
}

// Conversation selects messages exchanged by two users on a trip.
type Conversation struct {
	TripID uuid.UUID
	UserA  uuid.UUID
	UserB  uuid.UUID
}

func (s Conversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("trip_id = ?", s.TripID).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", s.UserA, s.UserB, s.UserB, s.UserA)
}

type Unread struct{}

func (s Unread) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("read_at IS NULL")
}

type ByRecipient struct {
	UserID uuid.UUID
}

func (s ByRecipient) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("recipient_id = ?", s.UserID)
}
