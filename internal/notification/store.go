package notification

import (
	"gorm.io/gorm"

	"github.com/workhive/workhive-api/internal/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Save(
	userID uint,
	kind string,
	message string,
	relatedBookingID *uint,
) (*models.Notification, error) {

	n := models.Notification{
		UserID:           userID,
		Type:             kind,
		Message:          message,
		RelatedBookingID: relatedBookingID,
	}

	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}
