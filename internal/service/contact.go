package service

import (
	"context"
	"fmt"

	"portfolio-backend/internal/model"

	"github.com/rs/zerolog/log"
)

type ContactStore interface {
	Insert(ctx context.Context, req model.ContactRequest) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.ContactMessage, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type ContactNotifier interface {
	NotifyContact(req model.ContactRequest)
}

// ContactService accepts validated contact submissions. Both the store and
// the notifier are optional; without either a submission is only
// acknowledged.
type ContactService struct {
	store    ContactStore
	notifier ContactNotifier
}

func NewContactService(store ContactStore, notifier ContactNotifier) *ContactService {
	return &ContactService{store: store, notifier: notifier}
}

func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) error {
	if s.store != nil {
		id, err := s.store.Insert(ctx, req)
		if err != nil {
			return fmt.Errorf("store contact message: %w", err)
		}
		log.Info().Int64("id", id).Str("subject", req.Subject).Msg("contact: stored")
	} else {
		log.Info().Str("subject", req.Subject).Msg("contact: received")
	}

	if s.notifier != nil {
		s.notifier.NotifyContact(req)
	}
	return nil
}

func (s *ContactService) Total(ctx context.Context) (int64, error) {
	if s.store == nil {
		return 0, nil
	}
	return s.store.CountTotal(ctx)
}

// Recent returns the newest stored submissions, or none without a store.
func (s *ContactService) Recent(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	if s.store == nil {
		return []model.ContactMessage{}, nil
	}
	msgs, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.ContactMessage{}
	}
	return msgs, nil
}

// Prune deletes submissions older than days. A non-positive retention keeps
// everything.
func (s *ContactService) Prune(ctx context.Context, days int) (int64, error) {
	if s.store == nil || days <= 0 {
		return 0, nil
	}
	n, err := s.store.DeleteOlderThan(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("prune contact messages: %w", err)
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Int("days", days).Msg("contact: pruned")
	}
	return n, nil
}
