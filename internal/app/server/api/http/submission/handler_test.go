package submission

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fieldsync/internal/domain/submission"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Commit(ctx context.Context, req submission.CommitRequest) (*submission.Record, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submission.Record), args.Error(1)
}

func (m *MockService) Find(ctx context.Context, id string) (*submission.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*submission.Record), args.Error(1)
}

func (m *MockService) List(ctx context.Context, formID string, limit, offset int) (submission.ListResponse, error) {
	args := m.Called(ctx, formID, limit, offset)
	return args.Get(0).(submission.ListResponse), args.Error(1)
}

const testID = "1f4c3f2a-9d1e-4a3b-8c5d-2e6f7a8b9c0d"

func validFeature() json.RawMessage {
	return json.RawMessage(`{"geometry":{"type":"Point","coordinates":[30.5,50.4]},"properties":{"note":"oak"}}`)
}

func TestHandler_Commit(t *testing.T) {
	t.Run("Success_NewSubmission", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		input := &commitInput{ID: testID}
		input.Body.FormID = "tree-survey"
		input.Body.Payload = validFeature()
		input.Body.SubmittedAt = time.Now().UTC()

		svc.On("Commit", mock.Anything, mock.MatchedBy(func(req submission.CommitRequest) bool {
			return req.ID == testID && req.FormID == "tree-survey"
		})).Return(&submission.Record{
			ID:         testID,
			FormID:     "tree-survey",
			ReceivedAt: time.Now().UTC(),
		}, nil)

		resp, err := h.commit(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, testID, resp.Body.ID)
		assert.Equal(t, "Committed", resp.Body.Status)
		svc.AssertExpectations(t)
	})

	t.Run("Conflict_DuplicateID", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		input := &commitInput{ID: testID}
		input.Body.FormID = "tree-survey"
		input.Body.Payload = validFeature()

		svc.On("Commit", mock.Anything, mock.Anything).Return(nil, submission.ErrAlreadyExists)

		resp, err := h.commit(context.Background(), input)

		assert.Nil(t, resp)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already committed")
	})

	t.Run("Unprocessable_UnknownForm", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		input := &commitInput{ID: testID}
		input.Body.FormID = "no-such-form"
		input.Body.Payload = validFeature()

		svc.On("Commit", mock.Anything, mock.Anything).Return(nil, submission.ErrUnknownForm)

		resp, err := h.commit(context.Background(), input)

		assert.Nil(t, resp)
		assert.Error(t, err)
	})

	t.Run("Unprocessable_BodyIDMismatch", func(t *testing.T) {
		h := NewHandler(nil, nil, nil)

		input := &commitInput{ID: testID}
		input.Body.ID = "9e107d9d-8f1b-4b7a-a517-0a1c5e82f3d1"
		input.Body.FormID = "tree-survey"

		resp, err := h.commit(context.Background(), input)

		assert.Nil(t, resp)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})
}

func TestHandler_Find(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("Find", mock.Anything, testID).Return(&submission.Record{ID: testID}, nil)

		resp, err := h.find(context.Background(), &findInput{ID: testID})

		assert.NoError(t, err)
		assert.Equal(t, testID, resp.Body.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc := new(MockService)
		h := NewHandler(svc, nil, nil)

		svc.On("Find", mock.Anything, testID).Return(nil, submission.ErrNotFound)

		resp, err := h.find(context.Background(), &findInput{ID: testID})

		assert.Nil(t, resp)
		assert.Error(t, err)
	})
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	h := NewHandler(svc, nil, nil)

	svc.On("List", mock.Anything, "tree-survey", 10, 0).Return(submission.ListResponse{
		Submissions: []submission.Record{{ID: testID, FormID: "tree-survey"}},
		Total:       1,
	}, nil)

	resp, err := h.list(context.Background(), &listInput{FormID: "tree-survey", Limit: 10})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Body.Total)
	assert.Len(t, resp.Body.Submissions, 1)
}
