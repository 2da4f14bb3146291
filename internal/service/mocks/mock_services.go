package mocks

import (
	"context"

	"defiquiz/internal/model"
	"defiquiz/internal/nomi"
	"defiquiz/internal/selfid"
	"defiquiz/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) Questions(ctx context.Context, protocolID string) (*service.QuestionsResult, error) {
	args := m.Called(ctx, protocolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuestionsResult), args.Error(1)
}

func (m *MockQuizService) Submit(ctx context.Context, req service.SubmitRequest) (*service.SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockQuizService) Results(ctx context.Context, token string) (*service.ResultsResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResultsResult), args.Error(1)
}

type MockProtocolService struct {
	mock.Mock
}

func (m *MockProtocolService) List(ctx context.Context, admin bool) (*service.ProtocolList, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProtocolList), args.Error(1)
}

func (m *MockProtocolService) Create(ctx context.Context, in service.CreateProtocolInput) (*model.Protocol, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Protocol), args.Error(1)
}

func (m *MockProtocolService) AddQuestion(ctx context.Context, protocolID string, in service.QuestionInput) (*model.Question, error) {
	args := m.Called(ctx, protocolID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Verify(ctx context.Context, a selfid.Attestation) *service.VerifyResponse {
	args := m.Called(ctx, a)
	return args.Get(0).(*service.VerifyResponse)
}

func (m *MockVerificationService) Check(ctx context.Context, userID string) (*service.CheckResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckResult), args.Error(1)
}

func (m *MockVerificationService) Scope() string {
	return m.Called().String(0)
}

type MockNomiService struct {
	mock.Mock
}

func (m *MockNomiService) ContextUpload(ctx context.Context, protocolID string, maxWords int) (*nomi.ContextUploadResponse, error) {
	args := m.Called(ctx, protocolID, maxWords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nomi.ContextUploadResponse), args.Error(1)
}

func (m *MockNomiService) SuggestQuestion(ctx context.Context, protocolID, topic string) (*service.SuggestedQuestion, error) {
	args := m.Called(ctx, protocolID, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SuggestedQuestion), args.Error(1)
}

func (m *MockNomiService) AgentQuestion(ctx context.Context, req nomi.AgentQuestionRequest) (*nomi.AgentQuestionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nomi.AgentQuestionResponse), args.Error(1)
}

func (m *MockNomiService) AnalyzeResponse(ctx context.Context, req nomi.AnalyzeRequest) (*nomi.AnalyzeResponseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nomi.AnalyzeResponseResult), args.Error(1)
}

func (m *MockNomiService) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	args := m.Called(ctx, text, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
