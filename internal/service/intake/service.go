package intake

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rwooga-storefront/internal/domain"
	"rwooga-storefront/internal/validation"
)

type siteStore interface {
	CustomPrinting(ctx context.Context) bool
	UpdateRequests(ctx context.Context, fn func([]domain.CustomRequest) ([]domain.CustomRequest, error)) error
	UpdateMessages(ctx context.Context, fn func([]domain.ContactMessage) ([]domain.ContactMessage, error)) error
}

type Service struct {
	site     siteStore
	whatsApp string
	logger   *zap.Logger
	now      func() time.Time
}

// New builds the intake service. whatsAppNumber may carry a leading + or
// spaces; only its digits are used in links.
func New(site siteStore, whatsAppNumber string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		site:     site,
		whatsApp: digits(whatsAppNumber),
		logger:   logger,
		now:      time.Now,
	}
}

type RequestInput struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"projectType" validate:"required"`
	Description string `json:"description" validate:"required,max=5000"`
	Deadline    string `json:"deadline"`
}

// Submission is a stored custom request together with the WhatsApp link that
// hands the conversation over to the studio.
type Submission struct {
	Request     domain.CustomRequest `json:"request"`
	WhatsAppURL string               `json:"whatsappUrl"`
}

// Settings is the public storefront configuration.
type Settings struct {
	CustomPrintingEnabled bool   `json:"customPrintingEnabled"`
	WhatsAppURL           string `json:"whatsappUrl"`
}

func (s *Service) Settings(ctx context.Context) Settings {
	return Settings{
		CustomPrintingEnabled: s.site.CustomPrinting(ctx),
		WhatsAppURL:           s.WhatsAppLink(""),
	}
}

// SubmitRequest stores a custom-order request. It is refused with
// domain.ErrIntakeClosed while custom printing is switched off.
func (s *Service) SubmitRequest(ctx context.Context, in RequestInput) (*Submission, error) {
	if !s.site.CustomPrinting(ctx) {
		return nil, domain.ErrIntakeClosed
	}
	in = trimRequest(in)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	req := domain.CustomRequest{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Description: in.Description,
		Deadline:    in.Deadline,
		CreatedAt:   s.now().UTC(),
	}
	err := s.site.UpdateRequests(ctx, func(list []domain.CustomRequest) ([]domain.CustomRequest, error) {
		return append(list, req), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("custom request received", zap.String("request_id", req.ID), zap.String("project_type", req.ProjectType))

	return &Submission{Request: req, WhatsAppURL: s.WhatsAppLink(requestMessage(req))}, nil
}

type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (*domain.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	msg := domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}
	err := s.site.UpdateMessages(ctx, func(list []domain.ContactMessage) ([]domain.ContactMessage, error) {
		return append(list, msg), nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("contact message received", zap.String("message_id", msg.ID))
	return &msg, nil
}

// WhatsAppLink returns a wa.me link to the studio, prefilled with text when
// text is not empty.
func (s *Service) WhatsAppLink(text string) string {
	link := "https://wa.me/" + s.whatsApp
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func requestMessage(r domain.CustomRequest) string {
	return fmt.Sprintf("Hi Rwooga! I have a custom project request.\n\nName: %s\nType: %s\nDescription: %s\nDeadline: %s",
		r.Name, r.ProjectType, r.Description, r.Deadline)
}

func trimRequest(in RequestInput) RequestInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ProjectType = strings.TrimSpace(in.ProjectType)
	in.Description = strings.TrimSpace(in.Description)
	in.Deadline = strings.TrimSpace(in.Deadline)
	return in
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
