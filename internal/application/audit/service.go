package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-banking-api/internal/domain"
	"github.com/go-banking-api/internal/pkg/id"
)

// Store is the audit-trail persistence contract.
type Store interface {
	Put(ctx context.Context, e *domain.AuditEntry) error
	ListByUser(ctx context.Context, userID string, f domain.AuditFilters) ([]domain.AuditEntry, error)
}

// Exporter archives report documents and hands out download URLs.
type Exporter interface {
	UploadJSON(ctx context.Context, key string, body []byte) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Service interface {
	// Record appends an entry. Best effort: the business operation that
	// triggered it must not fail because the trail write did.
	Record(ctx context.Context, userID, action, entity, entityID string)
	ListByUser(ctx context.Context, userID string, f domain.AuditFilters) ([]domain.AuditEntry, int, error)
	Summary(ctx context.Context, userID string, from, to *time.Time) ([]domain.ActionCount, error)
	Stats(ctx context.Context, userID string) (*domain.AuditStats, error)
	// Export uploads a user's full trail as JSON and returns a presigned
	// download URL valid for one hour.
	Export(ctx context.Context, userID string) (string, error)
}

type service struct {
	store    Store
	exporter Exporter
}

func NewService(store Store, exporter Exporter) Service {
	return &service{store: store, exporter: exporter}
}

func (s *service) Record(ctx context.Context, userID, action, entity, entityID string) {
	e := &domain.AuditEntry{
		AuditID:   id.New(),
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, e); err != nil {
		slog.Warn("audit write failed", "user_id", userID, "action", action, "err", err)
	}
}

func (s *service) ListByUser(ctx context.Context, userID string, f domain.AuditFilters) ([]domain.AuditEntry, int, error) {
	entries, err := s.store.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, 0, err
	}
	total := len(entries)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	start := (f.Page - 1) * f.PageSize
	if start >= total {
		return []domain.AuditEntry{}, total, nil
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return entries[start:end], total, nil
}

func (s *service) Summary(ctx context.Context, userID string, from, to *time.Time) ([]domain.ActionCount, error) {
	entries, err := s.store.ListByUser(ctx, userID, domain.AuditFilters{FromDate: from, ToDate: to})
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	order := []string{}
	for _, e := range entries {
		if _, seen := counts[e.Action]; !seen {
			order = append(order, e.Action)
		}
		counts[e.Action]++
	}
	summary := make([]domain.ActionCount, 0, len(order))
	for _, action := range order {
		summary = append(summary, domain.ActionCount{Action: action, Count: counts[action]})
	}
	return summary, nil
}

func (s *service) Stats(ctx context.Context, userID string) (*domain.AuditStats, error) {
	entries, err := s.store.ListByUser(ctx, userID, domain.AuditFilters{})
	if err != nil {
		return nil, err
	}
	stats := &domain.AuditStats{Total: len(entries)}
	if len(entries) > 0 {
		// Entries come back newest first.
		stats.LastAction = entries[0].Action
		last := entries[0].CreatedAt
		stats.LastAt = &last
	}
	return stats, nil
}

func (s *service) Export(ctx context.Context, userID string) (string, error) {
	entries, err := s.store.ListByUser(ctx, userID, domain.AuditFilters{})
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(struct {
		UserID     string              `json:"user_id"`
		ExportedAt time.Time           `json:"exported_at"`
		Entries    []domain.AuditEntry `json:"entries"`
	}{UserID: userID, ExportedAt: time.Now().UTC(), Entries: entries})
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("audit-exports/%s/%s.json", userID, id.New())
	if _, err := s.exporter.UploadJSON(ctx, key, body); err != nil {
		return "", err
	}
	return s.exporter.PresignedURL(ctx, key, time.Hour)
}
