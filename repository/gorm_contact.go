package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/daeho-materials/daeho-web/domains/contact"
)

type ContactMessageModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	Company   string    `gorm:"column:company"`
	Subject   string    `gorm:"column:subject"`
	Body      string    `gorm:"column:body"`
	Locale    string    `gorm:"column:locale"`
	Mailed    bool      `gorm:"column:mailed"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ContactMessageModel) TableName() string {
	return "contact_messages"
}

// ContactGormRepository stores contact-form submissions in the relational
// database so a lost mail never loses the message itself.
type ContactGormRepository struct {
	db *gorm.DB
}

func NewContactGormRepository(db *gorm.DB) *ContactGormRepository {
	return &ContactGormRepository{db: db}
}

func (r *ContactGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&ContactMessageModel{})
}

func (r *ContactGormRepository) Save(ctx context.Context, msg *contact.Message) error {
	return r.db.WithContext(ctx).Save(&ContactMessageModel{
		ID:        msg.ID,
		Name:      msg.Name,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Company:   msg.Company,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Locale:    msg.Locale,
		Mailed:    msg.Mailed,
		CreatedAt: msg.CreatedAt,
	}).Error
}

func (r *ContactGormRepository) List(ctx context.Context, limit, offset int) ([]contact.Message, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&ContactMessageModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ContactMessageModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	messages := make([]contact.Message, 0, len(models))
	for _, m := range models {
		messages = append(messages, contact.Message{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Phone:     m.Phone,
			Company:   m.Company,
			Subject:   m.Subject,
			Body:      m.Body,
			Locale:    m.Locale,
			Mailed:    m.Mailed,
			CreatedAt: m.CreatedAt,
		})
	}
	return messages, total, nil
}
