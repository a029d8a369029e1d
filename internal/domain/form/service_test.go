package form

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context) ([]Definition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Definition), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*Definition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Definition), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	forms := []Definition{
		{ID: "tree-survey", Name: "Tree survey", Schema: json.RawMessage(`{}`), Version: 3},
	}
	mockRepo.On("List", ctx).Return(forms, nil)

	resp, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, resp.Forms, 1)
	assert.Equal(t, "tree-survey", resp.Forms[0].ID)
}

func TestService_Find(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	t.Run("found", func(t *testing.T) {
		def := &Definition{ID: "tree-survey", Name: "Tree survey"}
		mockRepo.On("Get", ctx, "tree-survey").Return(def, nil)

		got, err := service.Find(ctx, "tree-survey")
		assert.NoError(t, err)
		assert.Equal(t, "Tree survey", got.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.On("Get", ctx, "missing").Return(nil, ErrNotFound)

		_, err := service.Find(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
