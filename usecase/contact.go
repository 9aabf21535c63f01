package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/daeho-materials/daeho-web/core/config"
	"github.com/daeho-materials/daeho-web/domains/contact"
	pkgError "github.com/daeho-materials/daeho-web/pkg/error"
	"github.com/daeho-materials/daeho-web/validations"
)

// contactService persists every submission before attempting mail, so a
// mail outage never loses a lead. Mailing is best-effort by design.
type contactService struct {
	repo   contact.IRepository
	mailer contact.Mailer
	mail   config.MailConfig
}

func NewContactService(repo contact.IRepository, mailer contact.Mailer, mail config.MailConfig) contact.IContactUsecase {
	return &contactService{repo: repo, mailer: mailer, mail: mail}
}

func (s *contactService) Submit(ctx context.Context, req contact.SubmitRequest) (contact.Message, error) {
	if err := validations.ValidateContactSubmit(ctx, req); err != nil {
		return contact.Message{}, err
	}

	msg := contact.Message{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Subject:   req.Subject,
		Body:      req.Body,
		Locale:    req.Locale,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, &msg); err != nil {
		return contact.Message{}, pkgError.StorageError(fmt.Sprintf("failed to store contact message: %v", err))
	}

	if s.mailer != nil {
		if err := s.mailer.Send(ctx, s.mail.ContactInbox, s.mailSubject(msg), s.htmlBody(msg), s.textBody(msg)); err != nil {
			logrus.Warnf("[ContactService] mail delivery failed for %s: %v", msg.ID, err)
		} else {
			msg.Mailed = true
			if err := s.repo.Save(ctx, &msg); err != nil {
				logrus.Warnf("[ContactService] failed to mark %s as mailed: %v", msg.ID, err)
			}
		}
	}

	return msg, nil
}

func (s *contactService) List(ctx context.Context, limit, offset int) ([]contact.Message, int64, error) {
	messages, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, pkgError.StorageError(fmt.Sprintf("failed to list contact messages: %v", err))
	}
	return messages, total, nil
}

func (s *contactService) mailSubject(msg contact.Message) string {
	if msg.Locale == "en" {
		return fmt.Sprintf("[Website inquiry] %s", msg.Subject)
	}
	return fmt.Sprintf("[홈페이지 문의] %s", msg.Subject)
}

func (s *contactService) htmlBody(msg contact.Message) string {
	return fmt.Sprintf(
		"<h2>%s</h2><p><b>From:</b> %s &lt;%s&gt;</p><p><b>Phone:</b> %s</p><p><b>Company:</b> %s</p><hr/><p>%s</p>",
		msg.Subject, msg.Name, msg.Email, msg.Phone, msg.Company, msg.Body,
	)
}

func (s *contactService) textBody(msg contact.Message) string {
	return fmt.Sprintf("%s\nFrom: %s <%s>\nPhone: %s\nCompany: %s\n\n%s",
		msg.Subject, msg.Name, msg.Email, msg.Phone, msg.Company, msg.Body)
}
