package usecase

import (
	"context"
	"strings"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/email"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

// Mailer is implemented by *email.Sender.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
	IsConfigured() bool
}

type contactUsecase struct {
	mailer    Mailer
	recipient string
	validate  *validator.Validate
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(mailer Mailer, recipient string, validate *validator.Validate) domain.ContactUsecase {
	return &contactUsecase{
		mailer:    mailer,
		recipient: recipient,
		validate:  validate,
	}
}

// SendContactMessage validates the contact request and mails it to the site
// owner with the visitor as reply-to.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := uc.validate.Struct(req); err != nil {
		return invalid(err)
	}

	if !uc.mailer.IsConfigured() || uc.recipient == "" {
		metrics.ContactMessagesTotal.WithLabelValues("unavailable").Inc()
		return apperror.Unavailable("Contact service temporarily unavailable", nil)
	}

	subject, body, err := email.RenderContact(email.ContactEmailData{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
	})
	if err != nil {
		return apperror.Internal(err)
	}

	err = uc.mailer.Send(ctx, email.Message{
		To:       uc.recipient,
		ReplyTo:  req.Email,
		Subject:  subject,
		HTMLBody: body,
	})
	metrics.ContactMessagesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.Log.Error("Failed to send contact email", "error", err)
		return apperror.Upstream("Failed to send message. Please try again later.", err)
	}
	return nil
}
