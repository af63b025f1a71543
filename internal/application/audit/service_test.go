package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-banking-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, e *domain.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}
func (m *mockStore) ListByUser(ctx context.Context, userID string, f domain.AuditFilters) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, userID, f)
	if es, _ := args.Get(0).([]domain.AuditEntry); es != nil {
		return es, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) UploadJSON(ctx context.Context, key string, body []byte) (string, error) {
	args := m.Called(ctx, key, body)
	return args.String(0), args.Error(1)
}
func (m *mockExporter) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func entriesNewestFirst() []domain.AuditEntry {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []domain.AuditEntry{
		{AuditID: "e3", UserID: "u1", Action: "login", CreatedAt: base.Add(2 * time.Hour)},
		{AuditID: "e2", UserID: "u1", Action: "password_reset", CreatedAt: base.Add(time.Hour)},
		{AuditID: "e1", UserID: "u1", Action: "login", CreatedAt: base},
	}
}

func TestRecord_StoreFailureIsSwallowed(t *testing.T) {
	store := &mockStore{}
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.AuditEntry")).Return(errors.New("throttled"))

	svc := NewService(store, &mockExporter{})
	svc.Record(context.Background(), "u1", "login", "user", "u1")
	store.AssertExpectations(t)
}

func TestRecord_FillsEntry(t *testing.T) {
	store := &mockStore{}
	var stored *domain.AuditEntry
	store.On("Put", mock.Anything, mock.AnythingOfType("*domain.AuditEntry")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.AuditEntry) }).
		Return(nil)

	svc := NewService(store, &mockExporter{})
	svc.Record(context.Background(), "u1", "login", "user", "u1")

	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.AuditID)
	assert.Equal(t, "login", stored.Action)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestListByUser_Paginates(t *testing.T) {
	store := &mockStore{}
	store.On("ListByUser", mock.Anything, "u1", mock.Anything).Return(entriesNewestFirst(), nil)

	svc := NewService(store, &mockExporter{})
	page, total, err := svc.ListByUser(context.Background(), "u1", domain.AuditFilters{Page: 2, PageSize: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "e1", page[0].AuditID)
}

func TestListByUser_PageBeyondEnd(t *testing.T) {
	store := &mockStore{}
	store.On("ListByUser", mock.Anything, "u1", mock.Anything).Return(entriesNewestFirst(), nil)

	svc := NewService(store, &mockExporter{})
	page, total, err := svc.ListByUser(context.Background(), "u1", domain.AuditFilters{Page: 5, PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, page)
}

func TestSummary_CountsPerAction(t *testing.T) {
	store := &mockStore{}
	store.On("ListByUser", mock.Anything, "u1", mock.Anything).Return(entriesNewestFirst(), nil)

	svc := NewService(store, &mockExporter{})
	summary, err := svc.Summary(context.Background(), "u1", nil, nil)

	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, domain.ActionCount{Action: "login", Count: 2}, summary[0])
	assert.Equal(t, domain.ActionCount{Action: "password_reset", Count: 1}, summary[1])
}

func TestStats_NewestEntryWins(t *testing.T) {
	store := &mockStore{}
	store.On("ListByUser", mock.Anything, "u1", mock.Anything).Return(entriesNewestFirst(), nil)

	svc := NewService(store, &mockExporter{})
	stats, err := svc.Stats(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, "login", stats.LastAction)
	require.NotNil(t, stats.LastAt)
	assert.Equal(t, time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC), *stats.LastAt)
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	store := &mockStore{}
	exporter := &mockExporter{}
	store.On("ListByUser", mock.Anything, "u1", mock.Anything).Return(entriesNewestFirst(), nil)

	var uploadedKey string
	exporter.On("UploadJSON", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			uploadedKey = args.String(1)
			var payload struct {
				UserID  string              `json:"user_id"`
				Entries []domain.AuditEntry `json:"entries"`
			}
			require.NoError(t, json.Unmarshal(args.Get(2).([]byte), &payload))
			assert.Equal(t, "u1", payload.UserID)
			assert.Len(t, payload.Entries, 3)
		}).
		Return("etag", nil)
	exporter.On("PresignedURL", mock.Anything, mock.AnythingOfType("string"), time.Hour).Return("https://signed.example/u1.json", nil)

	svc := NewService(store, exporter)
	url, err := svc.Export(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/u1.json", url)
	assert.True(t, strings.HasPrefix(uploadedKey, "audit-exports/u1/"))
	exporter.AssertCalled(t, "PresignedURL", mock.Anything, uploadedKey, time.Hour)
}
