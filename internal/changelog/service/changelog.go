package service

import (
	"context"
	"encoding/json"
	"time"

	"orgboard/internal/changelog/repository"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/kafka"
	"orgboard/pkg/model"
)

const relayTimeout = 5 * time.Second

// Relay is the optional downstream sink for change entries. Satisfied by
// the Kafka producer; nil disables relaying.
type Relay interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type ChangeLogService interface {
	// Record appends one audit entry. Best-effort: a log write failing
	// must never fail the domain mutation that triggered it.
	Record(ctx context.Context, entity, operation, rowID, username string, payload any)

	ListRecent(ctx context.Context, limit int) ([]*model.ChangeEntry, error)
}

type changeLogService struct {
	repo  repository.ChangeLogRepository
	relay Relay
	cfg   *config.Config
}

func NewChangeLogService(repo repository.ChangeLogRepository, relay Relay, cfg *config.Config) ChangeLogService {
	return &changeLogService{
		repo:  repo,
		relay: relay,
		cfg:   cfg,
	}
}

func (s *changeLogService) Record(ctx context.Context, entity, operation, rowID, username string, payload any) {
	entry := &model.ChangeEntry{
		Entity:    entity,
		Operation: operation,
		RowID:     rowID,
		Username:  username,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to write change log entry",
			"entity", entity,
			"operation", operation,
			"row_id", rowID,
			"error", err,
		)
		return
	}

	if s.relay != nil {
		// Detached from the request: the response must not wait on Kafka.
		go s.relayEntry(entry)
	}
}

func (s *changeLogService) relayEntry(entry *model.ChangeEntry) {
	value, err := json.Marshal(entry)
	if err != nil {
		s.cfg.Log.Error("Failed to marshal change entry for relay", "entry_id", entry.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
	defer cancel()

	err = s.relay.Publish(ctx, kafka.Message{
		Key:       entry.Entity,
		Value:     value,
		Timestamp: entry.CreatedAt,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to relay change entry",
			"entry_id", entry.ID,
			"entity", entry.Entity,
			"error", err,
		)
	}
}

func (s *changeLogService) ListRecent(ctx context.Context, limit int) ([]*model.ChangeEntry, error) {
	if limit <= 0 {
		limit = config.DefaultChangeLogLimit
	}
	if limit > s.cfg.ChangeLogHardLimit {
		limit = s.cfg.ChangeLogHardLimit
	}

	entries, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to read change log", "limit", limit, "error", err)
		return nil, apperrors.Internal("Failed to retrieve change log", err)
	}
	return entries, nil
}
