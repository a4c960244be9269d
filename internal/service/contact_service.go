package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"folio/internal/config"
	"folio/internal/featureflags"
	"folio/internal/mailer"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/validation"
)

// MaxPendingNotifications bounds owner emails in flight. A submission that
// finds every slot busy is stored without an email.
const MaxPendingNotifications = 16

type ContactService struct {
	repo   repository.ContactRepository
	mail   mailer.Mailer
	flags  *featureflags.Manager
	cfg    *config.Config
	notify []string

	pending chan struct{}
	wg      sync.WaitGroup
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

func NewContactService(repo repository.ContactRepository, mail mailer.Mailer, flags *featureflags.Manager, cfg *config.Config) *ContactService {
	s := &ContactService{
		repo:    repo,
		mail:    mail,
		flags:   flags,
		cfg:     cfg,
		pending: make(chan struct{}, MaxPendingNotifications),
	}
	if cfg != nil {
		switch {
		case cfg.AdminEmail != "":
			s.notify = []string{cfg.AdminEmail}
		case cfg.ContactEmail != "":
			s.notify = []string{cfg.ContactEmail}
		}
	}
	return s
}

// Info is the public contact block.
func (s *ContactService) Info() models.ContactInfo {
	if s.cfg == nil {
		return models.ContactInfo{}
	}
	return models.ContactInfo{
		Address:        s.cfg.ContactAddress,
		PhonePrimary:   s.cfg.ContactPhonePrimary,
		PhoneSecondary: s.cfg.ContactPhoneSecondary,
		Email:          s.cfg.ContactEmail,
		HoursWeekdays:  s.cfg.ContactHoursWeekdays,
		HoursWeekends:  s.cfg.ContactHoursWeekends,
		Social:         s.cfg.Socials(),
	}
}

// Submit stores a contact message and makes one attempt to notify the site
// owner. Notification failures never fail the submission.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	fields := validation.Fields{}
	fields.Required("name", in.Name)
	fields.MaxLen("name", in.Name, 200)
	fields.Required("email", in.Email)
	fields.Email("email", in.Email)
	fields.MaxLen("phone", in.Phone, 20)
	fields.Required("subject", in.Subject)
	fields.MaxLen("subject", in.Subject, 300)
	fields.Required("message", in.Message)
	if !fields.OK() {
		return nil, models.NewFieldErrors(fields)
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
		Status:  models.ContactNew,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.ContactMessages.Inc()

	s.notifyOwner(ctx, msg)
	return msg, nil
}

// notifyOwner hands the email to a background goroutine so a slow relay
// never holds up the request.
func (s *ContactService) notifyOwner(ctx context.Context, msg *models.ContactMessage) {
	if s.mail == nil || !s.flags.On(featureflags.ContactEmail) {
		return
	}
	select {
	case s.pending <- struct{}{}:
	default:
		observability.NotificationFailures.WithLabelValues("email_dropped").Inc()
		middleware.Logger.WarnContext(ctx, "contact notification dropped, too many in flight",
			slog.Uint64("contact_id", uint64(msg.ID)))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { <-s.pending }()
		s.sendNotification(context.WithoutCancel(ctx), msg)
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (s *ContactService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ContactService) sendNotification(ctx context.Context, msg *models.ContactMessage) {
	site := "Folio"
	if s.cfg != nil && s.cfg.SiteName != "" {
		site = s.cfg.SiteName
	}

	body := fmt.Sprintf("New contact form submission:\n\nName: %s\nEmail: %s\nPhone: %s\nSubject: %s\n\nMessage:\n%s\n",
		msg.Name, msg.Email, orDash(msg.Phone), msg.Subject, msg.Message)
	err := s.mail.Send(ctx, mailer.Message{
		To:      s.notify,
		ReplyTo: msg.Email,
		Subject: fmt.Sprintf("[%s] New contact: %s", site, msg.Subject),
		Body:    body,
	})
	if err != nil {
		observability.NotificationFailures.WithLabelValues("email").Inc()
		middleware.Logger.ErrorContext(ctx, "contact notification failed",
			slog.Uint64("contact_id", uint64(msg.ID)),
			slog.String("error", err.Error()))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// List returns messages newest first. An empty status lists all.
func (s *ContactService) List(ctx context.Context, status string, limit, offset int) ([]models.ContactMessage, error) {
	if status != "" && !models.ContactStatus(status).Valid() {
		return nil, models.NewFieldErrors(map[string]string{"status": invalidChoice(status)})
	}
	return s.repo.List(ctx, models.ContactStatus(status), limit, offset)
}

func (s *ContactService) Get(ctx context.Context, id uint) (*models.ContactMessage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) SetStatus(ctx context.Context, id uint, status string) error {
	if !models.ContactStatus(status).Valid() {
		return models.NewFieldErrors(map[string]string{"status": invalidChoice(status)})
	}
	return s.repo.SetStatus(ctx, id, models.ContactStatus(status))
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func invalidChoice(value string) string {
	return "Select a valid choice. " + value + " is not one of the available choices."
}
