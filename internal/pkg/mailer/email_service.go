package mailer

import (
	"fmt"
	"html"

	"matchtrip-be/internal/pkg/logger"
	"matchtrip-be/pkg/utils"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, fullName string) error
	SendCancellationReceipt(toEmail string, r CancellationMail) error
	SendCancellationDecision(toEmail string, r CancellationMail) error
	SendRefundResult(toEmail string, r CancellationMail) error
}

// CancellationMail is the data shown in every cancellation related email.
type CancellationMail struct {
	FullName          string
	TripTitle         string
	StartDate         string
	Status            string
	Percentage        int
	RefundAmount      int64
	Currency          string
	PolicyDescription string
	AdminNotes        string
	NeedsReview       bool
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      dialer
	senderEmail string
	senderName  string
	clientURL   string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, clientURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		clientURL:   clientURL,
		logger:      log,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send email", map[string]interface{}{
			"to":      toEmail,
			"subject": subject,
			"error":   err.Error(),
		})
		return err
	}
	s.logger.Info("MAILER", "Email sent", map[string]interface{}{"to": toEmail, "subject": subject})
	return nil
}

func wrap(inner string) string {
	return `<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">` + inner + `</div>`
}

func (s *emailService) SendWelcome(toEmail, fullName string) error {
	body := wrap(fmt.Sprintf(`
		<h2>Welcome to MatchTrip, %s!</h2>
		<p>Find a local guide for your next trip at <a href="%s">%s</a>.</p>`,
		html.EscapeString(fullName), s.clientURL, s.clientURL))
	return s.send(toEmail, "Welcome to MatchTrip", body)
}

func (s *emailService) SendCancellationReceipt(toEmail string, r CancellationMail) error {
	review := ""
	if r.NeedsReview {
		review = "<p>No refund rule matched your dates, so an administrator will review the amount.</p>"
	}
	body := wrap(fmt.Sprintf(`
		<h2>We received your cancellation request</h2>
		<p>Trip: <b>%s</b> (starts %s)</p>
		<p>Policy: %s</p>
		<p>Estimated refund: <b>%s</b> (%d%%)</p>
		%s
		<p>We will email you again once an administrator has reviewed the request.</p>`,
		html.EscapeString(r.TripTitle), r.StartDate, html.EscapeString(r.PolicyDescription),
		utils.FormatPrice(r.RefundAmount, r.Currency), r.Percentage, review))
	return s.send(toEmail, "Cancellation request received", body)
}

func (s *emailService) SendCancellationDecision(toEmail string, r CancellationMail) error {
	var headline, detail string
	if r.Status == "approved" {
		headline = "Your cancellation was approved"
		detail = fmt.Sprintf("<p>Refund amount: <b>%s</b>. The refund is being processed.</p>", utils.FormatPrice(r.RefundAmount, r.Currency))
	} else {
		headline = "Your cancellation was rejected"
		detail = "<p>Your booking remains active.</p>"
	}
	notes := ""
	if r.AdminNotes != "" {
		notes = fmt.Sprintf("<p>Note from our team: %s</p>", html.EscapeString(r.AdminNotes))
	}
	body := wrap(fmt.Sprintf(`<h2>%s</h2><p>Trip: <b>%s</b></p>%s%s`, headline, html.EscapeString(r.TripTitle), detail, notes))
	return s.send(toEmail, headline, body)
}

func (s *emailService) SendRefundResult(toEmail string, r CancellationMail) error {
	subject := "Your refund has been completed"
	if r.Status != "completed" {
		subject = "We could not complete your refund"
	}
	body := wrap(fmt.Sprintf(`<h2>%s</h2><p>Trip: <b>%s</b></p><p>Amount: %s</p>`,
		subject, html.EscapeString(r.TripTitle), utils.FormatPrice(r.RefundAmount, r.Currency)))
	return s.send(toEmail, subject, body)
}
