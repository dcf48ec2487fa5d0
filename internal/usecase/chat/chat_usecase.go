package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/repository"
	"github.com/qupid-app/qupid-backend/internal/usecase/usage"
	"github.com/qupid-app/qupid-backend/pkg/validation"
)

type ChatUseCase struct {
	messageRepo repository.MessageRepository
	matchRepo   repository.MatchRepository
	gate        *usage.Gate
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

func NewChatUseCase(
	messageRepo repository.MessageRepository,
	matchRepo repository.MatchRepository,
	gate *usage.Gate,
	v *validator.Validate,
	logger *zap.Logger,
) *ChatUseCase {
	return &ChatUseCase{
		messageRepo: messageRepo,
		matchRepo:   matchRepo,
		gate:        gate,
		validate:    v,
		logger:      logger,
		now:         time.Now,
	}
}

// SendMessageRequest represents an outgoing chat message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Text        string `json:"text" validate:"required,notblank,max=1000"`
}

// SendMessage stores a message to a match if the sender still has messages
// left today.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, req *SendMessageRequest) (*domain.Message, error) {
	if err := validation.Struct(uc.validate, req); err != nil {
		return nil, err
	}
	if req.RecipientID == senderID {
		return nil, domain.ErrCannotMessageSelf
	}
	if err := uc.requireMatch(ctx, senderID, req.RecipientID); err != nil {
		return nil, err
	}

	now := uc.now()
	if err := uc.gate.TryPerform(ctx, senderID, domain.UsageMessages, now); err != nil {
		return nil, err
	}

	message := &domain.Message{
		ID:             ksuid.New().String(),
		ConversationID: domain.ConversationID(senderID, req.RecipientID),
		SenderID:       senderID,
		RecipientID:    req.RecipientID,
		Text:           strings.TrimSpace(req.Text),
		SentAt:         now.UTC(),
	}
	if err := uc.messageRepo.Append(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	uc.logger.Debug("message sent",
		zap.String("message_id", message.ID),
		zap.String("conversation_id", message.ConversationID))
	return message, nil
}

// ListMessages returns the conversation with a match, oldest first.
func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, otherUserID string) ([]*domain.Message, error) {
	if otherUserID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	if err := uc.requireMatch(ctx, userID, otherUserID); err != nil {
		return nil, err
	}
	messages, err := uc.messageRepo.List(ctx, domain.ConversationID(userID, otherUserID))
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}

func (uc *ChatUseCase) requireMatch(ctx context.Context, userID, otherUserID string) error {
	_, err := uc.matchRepo.GetByUsers(ctx, userID, otherUserID)
	if errors.Is(err, domain.ErrMatchNotFound) {
		return domain.ErrNotMatched
	}
	if err != nil {
		return fmt.Errorf("failed to look up match: %w", err)
	}
	return nil
}
