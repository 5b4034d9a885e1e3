package repository

import (
	"context"

	"ipo-hype-tracker/internal/entity"

	"gorm.io/gorm"
)

// SubscriberRepository reads the digest recipient list.
type SubscriberRepository interface {
	FindActiveEmails(ctx context.Context) ([]string, error)
	Create(ctx context.Context, subscriber *entity.Subscriber) error
}

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new GORM-based subscriber repository.
func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

// FindActiveEmails returns the emails of subscribers that have not unsubscribed, oldest first.
func (r *subscriberRepository) FindActiveEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&entity.Subscriber{}).
		Where("is_active = ? AND unsubscribed_at IS NULL", true).
		Order("id asc").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

func (r *subscriberRepository) Create(ctx context.Context, subscriber *entity.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}
