package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-api/internal/models"
)

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (r *ChatGormRepository) GetConversation(
	ctx context.Context,
	id string,
) (*models.Conversation, error) {

	var conv models.Conversation
	err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// CreateConversation relies on the deterministic primary key: when both
// participants race the insert, the second write is a no-op.
func (r *ChatGormRepository) CreateConversation(
	ctx context.Context,
	conv *models.Conversation,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(conv).Error
}

func (r *ChatGormRepository) ListConversationsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Conversation, error) {

	var convs []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// --------------------------------------------------
// Message store
// --------------------------------------------------

func (r *ChatGormRepository) AppendMessage(
	ctx context.Context,
	msg *models.Message,
) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *ChatGormRepository) ListMessages(
	ctx context.Context,
	conversationID string,
) ([]models.Message, error) {

	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *ChatGormRepository) LatestMessage(
	ctx context.Context,
	conversationID string,
) (*models.Message, error) {

	var msg models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *ChatGormRepository) TouchConversation(
	ctx context.Context,
	conversationID string,
	at time.Time,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Update("last_message_at", at).Error
}

// --------------------------------------------------
// Profiles
// --------------------------------------------------

func (r *ChatGormRepository) GetUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
