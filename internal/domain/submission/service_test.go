package submission

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

// MockRepository is a mock implementation of the Repository interface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, rec *Record) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, formID string, limit, offset int) ([]Record, error) {
	args := m.Called(ctx, formID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, formID string) (int, error) {
	args := m.Called(ctx, formID)
	return args.Int(0), args.Error(1)
}

type MockFormChecker struct {
	mock.Mock
}

func (m *MockFormChecker) Exists(ctx context.Context, formID string) (bool, error) {
	args := m.Called(ctx, formID)
	return args.Bool(0), args.Error(1)
}

func validPayload() json.RawMessage {
	return json.RawMessage(`{"geometry":{"type":"Point","coordinates":[12.49,41.89]},"properties":{"species":"quercus"}}`)
}

func TestService_Commit(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("created", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockForms := new(MockFormChecker)
		service := NewService(mockRepo, mockForms, logger)

		req := CommitRequest{
			ID:          uuid.New().String(),
			FormID:      "tree-survey",
			Payload:     validPayload(),
			SubmittedAt: time.Now(),
		}

		mockForms.On("Exists", ctx, "tree-survey").Return(true, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*submission.Record")).Return(true, nil)

		rec, err := service.Commit(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, req.ID, rec.ID)
		assert.False(t, rec.ReceivedAt.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate id yields ErrAlreadyExists", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockForms := new(MockFormChecker)
		service := NewService(mockRepo, mockForms, logger)

		req := CommitRequest{
			ID:          uuid.New().String(),
			FormID:      "tree-survey",
			Payload:     validPayload(),
			SubmittedAt: time.Now(),
		}

		mockForms.On("Exists", ctx, "tree-survey").Return(true, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*submission.Record")).Return(false, nil)

		rec, err := service.Commit(ctx, req)
		assert.Nil(t, rec)
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("malformed id rejected before storage", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockForms := new(MockFormChecker)
		service := NewService(mockRepo, mockForms, logger)

		_, err := service.Commit(ctx, CommitRequest{
			ID:      "not-a-uuid",
			FormID:  "tree-survey",
			Payload: validPayload(),
		})
		assert.ErrorIs(t, err, ErrInvalidID)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("unknown form rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockForms := new(MockFormChecker)
		service := NewService(mockRepo, mockForms, logger)

		mockForms.On("Exists", ctx, "nope").Return(false, nil)

		_, err := service.Commit(ctx, CommitRequest{
			ID:      uuid.New().String(),
			FormID:  "nope",
			Payload: validPayload(),
		})
		assert.ErrorIs(t, err, ErrUnknownForm)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("payload without geometry rejected", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockForms := new(MockFormChecker)
		service := NewService(mockRepo, mockForms, logger)

		mockForms.On("Exists", ctx, "tree-survey").Return(true, nil)

		_, err := service.Commit(ctx, CommitRequest{
			ID:      uuid.New().String(),
			FormID:  "tree-survey",
			Payload: json.RawMessage(`{"properties":{"species":"quercus"}}`),
		})
		assert.ErrorIs(t, err, ErrInvalidPayload)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("storage error propagates", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockForms := new(MockFormChecker)
		service := NewService(mockRepo, mockForms, logger)

		mockForms.On("Exists", ctx, "tree-survey").Return(true, nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*submission.Record")).
			Return(false, errors.New("connection refused"))

		_, err := service.Commit(ctx, CommitRequest{
			ID:          uuid.New().String(),
			FormID:      "tree-survey",
			Payload:     validPayload(),
			SubmittedAt: time.Now(),
		})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrAlreadyExists)
	})
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"point feature", `{"geometry":{"type":"Point","coordinates":[0,0]},"properties":{}}`, false},
		{"polygon feature", `{"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"a":1}}`, false},
		{"empty payload", ``, true},
		{"not json", `{{`, true},
		{"missing geometry", `{"properties":{}}`, true},
		{"null geometry", `{"geometry":null,"properties":{}}`, true},
		{"geometry without coordinates", `{"geometry":{"type":"Point"},"properties":{}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(json.RawMessage(tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPayload)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	mockForms := new(MockFormChecker)
	service := NewService(mockRepo, mockForms, slog.Default())

	records := []Record{
		{ID: uuid.New().String(), FormID: "tree-survey"},
		{ID: uuid.New().String(), FormID: "tree-survey"},
	}

	// Out-of-range limit falls back to the default page size.
	mockRepo.On("List", ctx, "tree-survey", 100, 0).Return(records, nil)
	mockRepo.On("Count", ctx, "tree-survey").Return(2, nil)

	resp, err := service.List(ctx, "tree-survey", 0, 0)
	assert.NoError(t, err)
	assert.Len(t, resp.Submissions, 2)
	assert.Equal(t, 2, resp.Total)
}
