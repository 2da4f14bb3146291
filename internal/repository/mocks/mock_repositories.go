package mocks

import (
	"context"

	"defiquiz/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockProtocolRepository struct {
	mock.Mock
}

func (m *MockProtocolRepository) List(ctx context.Context, includeHidden bool) ([]model.ProtocolWithCount, error) {
	args := m.Called(ctx, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProtocolWithCount), args.Error(1)
}

func (m *MockProtocolRepository) FindByID(ctx context.Context, id string) (*model.Protocol, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Protocol), args.Error(1)
}

func (m *MockProtocolRepository) Create(ctx context.Context, p *model.Protocol) (*model.Protocol, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Protocol), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListByProtocol(ctx context.Context, protocolID string) ([]model.Question, error) {
	args := m.Called(ctx, protocolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *model.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}
