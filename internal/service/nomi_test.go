package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"defiquiz/internal/model"
	"defiquiz/internal/nomi"
	"defiquiz/internal/repository"
	repoMocks "defiquiz/internal/repository/mocks"
	"defiquiz/internal/storage"
	storeMocks "defiquiz/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNomiClient struct {
	mock.Mock
}

func (m *mockNomiClient) ContextUpload(ctx context.Context, req nomi.ContextUploadRequest) (*nomi.ContextUploadResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nomi.ContextUploadResponse), args.Error(1)
}

func (m *mockNomiClient) VoiceSynthesize(ctx context.Context, text, language string) ([]byte, error) {
	args := m.Called(ctx, text, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockNomiClient) AgentQuestion(ctx context.Context, req nomi.AgentQuestionRequest) (*nomi.AgentQuestionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nomi.AgentQuestionResponse), args.Error(1)
}

func (m *mockNomiClient) AgentAnalyzeResponse(ctx context.Context, req nomi.AnalyzeRequest) (*nomi.AnalyzeResponseResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nomi.AnalyzeResponseResult), args.Error(1)
}

func TestBuildDocs(t *testing.T) {
	assert.Equal(t, "full", buildDocs(&model.Protocol{Name: "A", Docs: "  full  ", Description: "d"}))
	assert.Equal(t, "Title\n\ndesc", buildDocs(&model.Protocol{Name: "A", Title: "Title", Description: " desc "}))
	assert.Equal(t, "A", buildDocs(&model.Protocol{Name: "A", Docs: "   "}))
}

func TestNomiService_ContextUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads docs with default max words", func(t *testing.T) {
		c := new(mockNomiClient)
		r := new(repoMocks.MockProtocolRepository)
		r.On("FindByID", ctx, "aave").Return(&model.Protocol{ID: "aave", Name: "Aave", Docs: "docs"}, nil)
		c.On("ContextUpload", ctx, nomi.ContextUploadRequest{Text: "docs", MaxWords: 400}).
			Return(&nomi.ContextUploadResponse{ContextID: "ctx"}, nil)

		res, err := NewNomiService(c, r, nil).ContextUpload(ctx, "aave", 0)

		require.NoError(t, err)
		assert.Equal(t, "ctx", res.ContextID)
		c.AssertExpectations(t)
	})

	t.Run("missing protocol id", func(t *testing.T) {
		_, err := NewNomiService(nil, nil, nil).ContextUpload(ctx, "", 0)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("unknown protocol", func(t *testing.T) {
		r := new(repoMocks.MockProtocolRepository)
		r.On("FindByID", ctx, "nope").Return(nil, repository.ErrNotFound)

		_, err := NewNomiService(nil, r, nil).ContextUpload(ctx, "nope", 0)
		assert.ErrorIs(t, err, ErrProtocolNotFound)
	})

	t.Run("upstream error passes through", func(t *testing.T) {
		c := new(mockNomiClient)
		r := new(repoMocks.MockProtocolRepository)
		r.On("FindByID", ctx, "aave").Return(&model.Protocol{ID: "aave", Name: "Aave"}, nil)
		c.On("ContextUpload", ctx, mock.Anything).Return(nil, &nomi.TimeoutError{})

		_, err := NewNomiService(c, r, nil).ContextUpload(ctx, "aave", 650)
		var toErr *nomi.TimeoutError
		assert.True(t, errors.As(err, &toErr))
	})
}

func TestNomiService_SuggestQuestion(t *testing.T) {
	ctx := context.Background()
	c := new(mockNomiClient)
	r := new(repoMocks.MockProtocolRepository)
	r.On("FindByID", ctx, "morpho").Return(&model.Protocol{ID: "morpho", Name: "Morpho", Description: "lending"}, nil)
	c.On("ContextUpload", ctx, nomi.ContextUploadRequest{Text: "Morpho\n\nlending", MaxWords: 400}).
		Return(&nomi.ContextUploadResponse{ContextID: "ctx-9"}, nil)
	c.On("AgentQuestion", ctx, nomi.AgentQuestionRequest{ContextID: "ctx-9", Topic: "vaults"}).
		Return(&nomi.AgentQuestionResponse{Question: "What is a vault?"}, nil)

	res, err := NewNomiService(c, r, nil).SuggestQuestion(ctx, " morpho ", " vaults ")

	require.NoError(t, err)
	assert.Equal(t, "What is a vault?", res.Question)
	assert.Equal(t, []string{}, res.SuggestedTopics)
}

func TestNomiService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewNomiService(new(mockNomiClient), nil, nil)

	_, err := svc.AgentQuestion(ctx, nomi.AgentQuestionRequest{ContextID: "  "})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.AnalyzeResponse(ctx, nomi.AnalyzeRequest{ContextID: "c", OriginalQuestion: "q"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.AnalyzeResponse(ctx, nomi.AnalyzeRequest{Audio: strings.NewReader("a"), OriginalQuestion: "q"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.AnalyzeResponse(ctx, nomi.AnalyzeRequest{Audio: strings.NewReader("a"), ContextID: "c"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Synthesize(ctx, "   ", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNomiService_Synthesize(t *testing.T) {
	ctx := context.Background()
	key := VoiceCacheKey("hola", "es-MX")

	t.Run("no cache", func(t *testing.T) {
		c := new(mockNomiClient)
		c.On("VoiceSynthesize", ctx, "hola", "es-MX").Return([]byte("mp3"), nil)

		audio, err := NewNomiService(c, nil, nil).Synthesize(ctx, " hola ", "")

		require.NoError(t, err)
		assert.Equal(t, []byte("mp3"), audio)
	})

	t.Run("cache hit skips upstream", func(t *testing.T) {
		c := new(mockNomiClient)
		s := new(storeMocks.MockStorage)
		s.On("Get", ctx, key).Return(io.NopCloser(strings.NewReader("cached")), storage.ObjectInfo{Size: 6}, nil)

		audio, err := NewNomiService(c, nil, s).Synthesize(ctx, "hola", "es-MX")

		require.NoError(t, err)
		assert.Equal(t, []byte("cached"), audio)
		c.AssertNotCalled(t, "VoiceSynthesize", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cache miss stores result", func(t *testing.T) {
		c := new(mockNomiClient)
		s := new(storeMocks.MockStorage)
		s.On("Get", ctx, key).Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
		c.On("VoiceSynthesize", ctx, "hola", "es-MX").Return([]byte("fresh"), nil)
		s.On("Put", ctx, key, mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.Size == 5 && o.ContentType == "audio/mpeg"
		})).Return(storage.ObjectInfo{Key: key}, nil)

		audio, err := NewNomiService(c, nil, s).Synthesize(ctx, "hola", "")

		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), audio)
		s.AssertExpectations(t)
	})

	t.Run("cache failures never fail the request", func(t *testing.T) {
		c := new(mockNomiClient)
		s := new(storeMocks.MockStorage)
		s.On("Get", ctx, key).Return(nil, storage.ObjectInfo{}, errors.New("minio down"))
		c.On("VoiceSynthesize", ctx, "hola", "es-MX").Return([]byte("fresh"), nil)
		s.On("Put", ctx, key, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("minio down"))

		audio, err := NewNomiService(c, nil, s).Synthesize(ctx, "hola", "es-MX")

		require.NoError(t, err)
		assert.Equal(t, []byte("fresh"), audio)
	})

	t.Run("empty cached object is evicted", func(t *testing.T) {
		c := new(mockNomiClient)
		s := new(storeMocks.MockStorage)
		s.On("Get", ctx, key).Return(io.NopCloser(strings.NewReader("")), storage.ObjectInfo{}, nil)
		s.On("Delete", ctx, key).Return(nil)
		c.On("VoiceSynthesize", ctx, "hola", "es-MX").Return([]byte("fresh"), nil)
		s.On("Put", ctx, key, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)

		_, err := NewNomiService(c, nil, s).Synthesize(ctx, "hola", "es-MX")

		require.NoError(t, err)
		s.AssertExpectations(t)
	})

	t.Run("upstream failure", func(t *testing.T) {
		c := new(mockNomiClient)
		c.On("VoiceSynthesize", ctx, "hola", "es-MX").Return(nil, &nomi.ConfigError{Message: "not configured"})

		_, err := NewNomiService(c, nil, nil).Synthesize(ctx, "hola", "es-MX")
		var cfgErr *nomi.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})
}

func TestVoiceCacheKey(t *testing.T) {
	k := VoiceCacheKey("hola", "es-MX")
	assert.True(t, strings.HasPrefix(k, "voice/"))
	assert.True(t, strings.HasSuffix(k, ".mp3"))
	assert.Len(t, k, len("voice/")+64+len(".mp3"))
	assert.NotEqual(t, k, VoiceCacheKey("hola", "en-US"))
}
