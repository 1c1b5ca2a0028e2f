package mapper

import (
	"encoding/json"

	"matchtrip-be/internal/dto"
	"matchtrip-be/internal/entity"
	"matchtrip-be/internal/pkg/fieldcrypt"
	"matchtrip-be/pkg/utils"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// UserToListResponse converts entity to the admin list row. Phone numbers are
// masked.
func UserToListResponse(u *entity.User) *dto.AdminUserListResponse {
	if u == nil {
		return nil
	}
	res := &dto.AdminUserListResponse{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
	if u.Phone != nil {
		res.Phone = fieldcrypt.MaskPhone(*u.Phone)
	}
	return res
}

// UsersToListResponse converts multiple entities to list response DTOs
func UsersToListResponse(users []*entity.User) []*dto.AdminUserListResponse {
	res := make([]*dto.AdminUserListResponse, 0, len(users))
	for _, u := range users {
		res = append(res, UserToListResponse(u))
	}
	return res
}

// UserToProfileResponse is the owner's view, including decrypted contact data.
func UserToProfileResponse(u *entity.User) *dto.UserProfileResponse {
	if u == nil {
		return nil
	}
	return &dto.UserProfileResponse{
		Id:            u.Id,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          string(u.Role),
		Status:        string(u.Status),
		Phone:         deref(u.Phone),
		PayoutAccount: deref(u.PayoutAccount),
		AvatarURL:     deref(u.AvatarURL),
		Bio:           u.Bio,
		CreatedAt:     u.CreatedAt,
	}
}

func UserToPublicResponse(u *entity.User) *dto.PublicUserResponse {
	if u == nil {
		return nil
	}
	return &dto.PublicUserResponse{
		Id:        u.Id,
		FullName:  u.FullName,
		Role:      string(u.Role),
		AvatarURL: deref(u.AvatarURL),
		Bio:       u.Bio,
	}
}

func TripToResponse(t *entity.Trip) *dto.TripResponse {
	if t == nil {
		return nil
	}
	photos := make([]string, 0, len(t.Photos))
	for _, p := range t.Photos {
		photos = append(photos, p.URL)
	}
	return &dto.TripResponse{
		Id:          t.Id,
		UserId:      t.UserId,
		Title:       t.Title,
		Destination: t.Destination,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Travelers:   t.Travelers,
		Budget:      t.Budget,
		Preferences: json.RawMessage(t.Preferences),
		Status:      string(t.Status),
		Photos:      photos,
		CreatedAt:   t.CreatedAt,
	}
}

func OfferToResponse(o *entity.Offer, currency string) *dto.OfferResponse {
	if o == nil {
		return nil
	}
	return &dto.OfferResponse{
		Id:        o.Id,
		TripId:    o.TripId,
		GuideId:   o.GuideId,
		Price:     o.Price,
		PriceText: utils.FormatPrice(o.Price, currency),
		Message:   o.Message,
		Itinerary: json.RawMessage(o.Itinerary),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

func PaymentToResponse(p *entity.Payment) *dto.PaymentResponse {
	if p == nil {
		return nil
	}
	return &dto.PaymentResponse{
		Id:            p.Id,
		OrderId:       p.OrderId,
		TripId:        p.TripId,
		OfferId:       p.OfferId,
		TravelerId:    p.TravelerId,
		GuideId:       p.GuideId,
		Amount:        p.Amount,
		AmountText:    utils.FormatPrice(p.Amount, p.Currency),
		Currency:      p.Currency,
		Status:        string(p.Status),
		RedirectURL:   p.RedirectURL,
		TripStartDate: p.TripStartDate,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
	}
}

func CancellationToResponse(c *entity.CancellationRequest) *dto.CancellationResponse {
	if c == nil {
		return nil
	}
	return &dto.CancellationResponse{
		Id:                 c.Id,
		PaymentId:          c.PaymentId,
		RequesterId:        c.RequesterId,
		RequesterRole:      string(c.RequesterRole),
		ReasonType:         c.ReasonType,
		ReasonDetail:       c.ReasonDetail,
		EventStartDate:     c.EventStartDate,
		PaymentAmount:      c.PaymentAmount,
		RefundPercentage:   c.RefundPercentage,
		CalculatedRefund:   c.CalculatedRefund,
		ActualRefundAmount: c.ActualRefundAmount,
		PolicyDescription:  c.PolicyDescription,
		PolicyBasis:        c.PolicyBasis,
		NeedsReview:        c.NeedsReview,
		Status:             string(c.Status),
		AdminNotes:         c.AdminNotes,
		ProcessedAt:        c.ProcessedAt,
		RefundStatus:       string(c.RefundStatus),
		RefundReference:    c.RefundReference,
		RefundedAt:         c.RefundedAt,
		CreatedAt:          c.CreatedAt,
	}
}

// CancellationToAdminResponse expects Requester and Payment to be preloaded;
// missing relations are left empty.
func CancellationToAdminResponse(c *entity.CancellationRequest) *dto.AdminCancellationListResponse {
	if c == nil {
		return nil
	}
	res := &dto.AdminCancellationListResponse{CancellationResponse: *CancellationToResponse(c)}
	if c.Requester != nil {
		res.Requester = dto.AdminCancellationUserInfo{
			Id:       c.Requester.Id,
			Email:    c.Requester.Email,
			FullName: c.Requester.FullName,
		}
	}
	if c.Payment != nil {
		res.Payment = &dto.AdminCancellationPaymentInfo{
			Id:      c.Payment.Id,
			OrderId: c.Payment.OrderId,
			Amount:  c.Payment.Amount,
			Status:  string(c.Payment.Status),
		}
	}
	return res
}

func PolicyToResponse(p *entity.RefundPolicy) *dto.RefundPolicyResponse {
	if p == nil {
		return nil
	}
	return &dto.RefundPolicyResponse{
		Id:               p.Id,
		DaysBeforeStart:  p.DaysBeforeStart,
		DaysBeforeEnd:    p.DaysBeforeEnd,
		RefundPercentage: p.RefundPercentage,
		ApplicableTo:     string(p.ApplicableTo),
		IsActive:         p.IsActive,
		Description:      p.Band().Describe(),
		UpdatedAt:        p.UpdatedAt,
	}
}

func MessageToResponse(m *entity.Message) *dto.MessageResponse {
	if m == nil {
		return nil
	}
	return &dto.MessageResponse{
		Id:          m.Id,
		TripId:      m.TripId,
		SenderId:    m.SenderId,
		RecipientId: m.RecipientId,
		Body:        m.Body,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}

func ReviewToResponse(r *entity.Review) dto.ReviewResponse {
	return dto.ReviewResponse{
		Id:         r.Id,
		TripId:     r.TripId,
		TravelerId: r.TravelerId,
		GuideId:    r.GuideId,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
