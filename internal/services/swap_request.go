package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/skillswap/internal/logger"
	"github.com/sbilibin2017/skillswap/internal/models"
	"github.com/segmentio/kafka-go"
)

// SwapRequestReader defines read-only operations for swap requests.
type SwapRequestReader interface {
	GetByIDForUser(ctx context.Context, id, userID int64) (*models.SwapRequestDB, error)
	ListForUser(ctx context.Context, userID int64, role string) ([]models.SwapRequestDB, error)
	HasPending(ctx context.Context, senderID, receiverID int64) (bool, error)
}

// SwapRequestWriter defines write operations for swap requests.
type SwapRequestWriter interface {
	Save(ctx context.Context, swap models.NewSwapRequest) (int64, error)
	UpdateStatusFromPending(ctx context.Context, id int64, status string) (bool, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CreateSwapRequestInput holds the client-supplied fields of a new request.
type CreateSwapRequestInput struct {
	ReceiverID      int64
	SenderSkillID   *int64
	ReceiverSkillID *int64
	Message         string
}

// SwapRequestService runs the swap-request lifecycle:
// pending -> accepted | rejected.
type SwapRequestService struct {
	users       UserReader
	skills      SkillReader
	reader      SwapRequestReader
	writer      SwapRequestWriter
	kafkaWriter KafkaWriter
	afterCommit func(ctx context.Context, fn func())
}

// SwapRequestOption configures a SwapRequestService.
type SwapRequestOption func(*SwapRequestService)

// WithAfterCommit defers event publishing through afterCommit, so events
// are only sent for committed changes.
func WithAfterCommit(afterCommit func(ctx context.Context, fn func())) SwapRequestOption {
	return func(s *SwapRequestService) {
		s.afterCommit = afterCommit
	}
}

// NewSwapRequestService creates a new SwapRequestService. kafkaWriter may be nil.
func NewSwapRequestService(
	users UserReader,
	skills SkillReader,
	reader SwapRequestReader,
	writer SwapRequestWriter,
	kafkaWriter KafkaWriter,
	opts ...SwapRequestOption,
) *SwapRequestService {
	s := &SwapRequestService{
		users:       users,
		skills:      skills,
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
		afterCommit: func(_ context.Context, fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publishEvent publishes a lifecycle event to Kafka once the change commits.
func (s *SwapRequestService) publishEvent(ctx context.Context, eventType string, swap *models.SwapRequestDB) {
	if s.kafkaWriter == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "swap_request_id", swap.ID)
		return
	}
	s.afterCommit(ctx, func() {
		s.writeEvent(ctx, eventType, swap)
	})
}

func (s *SwapRequestService) writeEvent(ctx context.Context, eventType string, swap *models.SwapRequestDB) {

	event := models.SwapRequestEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		SwapRequestID: swap.ID,
		SenderID:      swap.SenderID,
		ReceiverID:    swap.ReceiverID,
		Status:        swap.Status,
		Timestamp:     time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal swap request event", "swap_request_id", swap.ID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(swap.ID, 10)),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish swap request event", "swap_request_id", swap.ID, "type", eventType, "error", err)
	} else {
		logger.Log.Infow("Swap request event published", "swap_request_id", swap.ID, "type", eventType)
	}
}

func (s *SwapRequestService) requireSkill(ctx context.Context, id *int64, field string) error {
	if id == nil {
		return nil
	}
	skill, err := s.skills.GetByID(ctx, *id)
	if err != nil {
		logger.Log.Errorw("failed to get skill", "skill_id", *id, "err", err)
		return err
	}
	if skill == nil {
		return invalidField(ErrSkillDoesNotExist, field)
	}
	return nil
}

// Create sends a pending request from senderID.
func (s *SwapRequestService) Create(ctx context.Context, senderID int64, in CreateSwapRequestInput) (*models.SwapRequestDB, error) {
	if in.ReceiverID == 0 {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: map[string]string{"receiver_id": "this field is required"}}
	}
	if in.ReceiverID == senderID {
		return nil, invalidField(ErrSelfSwap, "receiver_id")
	}
	if strings.ContainsRune(in.Message, 0) {
		return nil, &ValidationError{Err: ErrInvalidInput, Fields: map[string]string{"message": "null characters are not allowed"}}
	}

	receiver, err := s.users.GetByID(ctx, in.ReceiverID)
	if err != nil {
		logger.Log.Errorw("failed to get receiver", "receiver_id", in.ReceiverID, "err", err)
		return nil, err
	}
	if receiver == nil {
		return nil, invalidField(ErrReceiverDoesNotExist, "receiver_id")
	}

	if err := s.requireSkill(ctx, in.SenderSkillID, "sender_skill_id"); err != nil {
		return nil, err
	}
	if err := s.requireSkill(ctx, in.ReceiverSkillID, "receiver_skill_id"); err != nil {
		return nil, err
	}

	pending, err := s.reader.HasPending(ctx, senderID, in.ReceiverID)
	if err != nil {
		logger.Log.Errorw("failed to check pending swap requests", "sender_id", senderID, "err", err)
		return nil, err
	}
	if pending {
		return nil, invalidField(ErrDuplicatePendingSwap, "receiver_id")
	}

	id, err := s.writer.Save(ctx, models.NewSwapRequest{
		SenderID:        senderID,
		ReceiverID:      in.ReceiverID,
		SenderSkillID:   in.SenderSkillID,
		ReceiverSkillID: in.ReceiverSkillID,
		Message:         strings.TrimSpace(in.Message),
	})
	if errors.Is(err, models.ErrUniqueViolation) {
		return nil, invalidField(ErrDuplicatePendingSwap, "receiver_id")
	}
	if err != nil {
		logger.Log.Errorw("failed to save swap request", "sender_id", senderID, "err", err)
		return nil, err
	}

	swap, err := s.Get(ctx, senderID, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, "created", swap)
	return swap, nil
}

// List returns the caller's requests in role (models.SwapRoleAny for both).
func (s *SwapRequestService) List(ctx context.Context, userID int64, role string) ([]models.SwapRequestDB, error) {
	swaps, err := s.reader.ListForUser(ctx, userID, role)
	if err != nil {
		logger.Log.Errorw("failed to list swap requests", "user_id", userID, "role", role, "err", err)
		return nil, err
	}
	return swaps, nil
}

// Get returns a request visible to userID.
func (s *SwapRequestService) Get(ctx context.Context, userID, id int64) (*models.SwapRequestDB, error) {
	swap, err := s.reader.GetByIDForUser(ctx, id, userID)
	if err != nil {
		logger.Log.Errorw("failed to get swap request", "swap_request_id", id, "err", err)
		return nil, err
	}
	if swap == nil {
		return nil, ErrNotFound
	}
	return swap, nil
}

// UpdateStatus lets the receiver accept or reject a pending request.
func (s *SwapRequestService) UpdateStatus(ctx context.Context, userID, id int64, status string) (*models.SwapRequestDB, error) {
	swap, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if status != models.SwapStatusAccepted && status != models.SwapStatusRejected {
		return nil, invalidField(ErrInvalidStatus, "status")
	}
	if swap.ReceiverID != userID {
		return nil, invalidField(ErrNotReceiver, "status")
	}
	if swap.Status != models.SwapStatusPending {
		return nil, invalidField(ErrSwapRequestFinalized, "status")
	}

	updated, err := s.writer.UpdateStatusFromPending(ctx, id, status)
	if err != nil {
		logger.Log.Errorw("failed to update swap request status", "swap_request_id", id, "err", err)
		return nil, err
	}
	if !updated {
		return nil, invalidField(ErrSwapRequestFinalized, "status")
	}

	swap, err = s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	logger.Log.Infow("swap request status changed", "swap_request_id", id, "status", status)
	s.publishEvent(ctx, status, swap)
	return swap, nil
}
