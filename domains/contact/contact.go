package contact

import (
	"context"
	"time"
)

// Message is one stored contact-form submission.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Locale    string    `json:"locale"` // ko | en
	Mailed    bool      `json:"mailed"`
	CreatedAt time.Time `json:"created_at"`
}

type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Locale  string `json:"locale"`
}

// Mailer is the black-box email collaborator. Implementations decide the
// transport; callers only see success or failure.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// IRepository persists submissions before any mail is attempted.
type IRepository interface {
	InitSchema(ctx context.Context) error
	Save(ctx context.Context, msg *Message) error
	List(ctx context.Context, limit, offset int) ([]Message, int64, error)
}

type IContactUsecase interface {
	Submit(ctx context.Context, req SubmitRequest) (Message, error)
	List(ctx context.Context, limit, offset int) ([]Message, int64, error)
}
