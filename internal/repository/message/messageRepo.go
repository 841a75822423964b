package messageRepo

import (
	"context"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IMessageRepo is the local persisted mirror of conversations. Only delivered
// messages are ever written; pending ones live in memory only.
type IMessageRepo interface {
	GetByConversation(ctx context.Context, conversationID string) ([]entity.Message, error)
	// ReplaceConversation drops whatever was persisted for the conversation and
	// stores the delivered subset of msgs.
	ReplaceConversation(ctx context.Context, conversationID string, msgs []entity.Message) error
	Upsert(ctx context.Context, msg entity.Message) error
}

type MessageRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IMessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) GetByConversation(ctx context.Context, conversationID string) ([]entity.Message, error) {
	var msgs []entity.Message
	res := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Find(&msgs)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "messageRepo.GetByConversation: ")
	}
	return msgs, nil
}

func (r *MessageRepo) ReplaceConversation(ctx context.Context, conversationID string, msgs []entity.Message) error {
	kept := deliveredOnly(conversationID, msgs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&entity.Message{}).Error; err != nil {
			return err
		}
		if len(kept) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&kept).Error
	})
	if err != nil {
		return errors.Wrap(err, "messageRepo.ReplaceConversation: ")
	}
	return nil
}

func (r *MessageRepo) Upsert(ctx context.Context, msg entity.Message) error {
	if !msg.Delivered {
		return nil
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&msg)
	if res.Error != nil {
		return errors.Wrap(res.Error, "messageRepo.Upsert: ")
	}
	return nil
}

func deliveredOnly(conversationID string, msgs []entity.Message) []entity.Message {
	kept := make([]entity.Message, 0, len(msgs))
	for _, m := range msgs {
		if !m.Delivered {
			continue
		}
		m.ConversationID = conversationID
		kept = append(kept, m)
	}
	return kept
}
