package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"defiquiz/internal/model"
	"defiquiz/internal/repository"
	repoMocks "defiquiz/internal/repository/mocks"
	"defiquiz/internal/store"
	"defiquiz/internal/store/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// aaveFixture has five questions; a5's key is a5-3.
func aaveFixture() []model.Question {
	correct := map[string]string{"a1": "a1-2", "a2": "a2-1", "a3": "a3-2", "a4": "a4-1", "a5": "a5-3"}
	var qs []model.Question
	for i := 1; i <= 5; i++ {
		id := fmt.Sprintf("a%d", i)
		q := model.Question{ID: id, ProtocolID: "aave", Text: "question " + id, Explanation: "why"}
		for j := 0; j < 4; j++ {
			aid := fmt.Sprintf("%s-%d", id, j)
			q.Answers = append(q.Answers, model.Answer{ID: aid, Text: aid, IsCorrect: aid == correct[id], Explanation: "because"})
		}
		qs = append(qs, q)
	}
	return qs
}

var aave = &model.Protocol{ID: "aave", Name: "Aave", Title: "Aave V3", SecretWord: "GHOST", Status: "public", Active: true}

type quizFixture struct {
	svc     *quizService
	prot    *repoMocks.MockProtocolRepository
	ques    *repoMocks.MockQuestionRepository
	tokens  store.Interface
	metrics *QuizMetrics
	now     time.Time
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &quizFixture{
		prot:   new(repoMocks.MockProtocolRepository),
		ques:   new(repoMocks.MockQuestionRepository),
		tokens: memory.New(ctx),
		now:    time.UnixMilli(1_700_000_000_000),
	}
	m, err := NewQuizMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	f.metrics = m

	f.svc = NewQuizService(f.prot, f.ques, f.tokens, m).(*quizService)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func ms(v int64) *int64 { return &v }

func specAnswers() map[string]string {
	return map[string]string{"a1": "a1-2", "a2": "a2-1", "a3": "a3-2", "a4": "a4-1", "a5": "a5-0"}
}

func TestQuizService_Questions(t *testing.T) {
	ctx := context.Background()

	t.Run("strips answer key", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "aave").Return(aave, nil)
		f.ques.On("ListByProtocol", ctx, "aave").Return(aaveFixture(), nil)

		res, err := f.svc.Questions(ctx, "aave")

		require.NoError(t, err)
		assert.Equal(t, 5, res.Total)
		assert.Equal(t, "Aave V3", res.Protocol.Title)
		assert.Len(t, res.Questions[0].Answers, 4)
	})

	t.Run("missing id", func(t *testing.T) {
		f := newQuizFixture(t)
		_, err := f.svc.Questions(ctx, " ")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("unknown protocol", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "nope").Return(nil, repository.ErrNotFound)

		_, err := f.svc.Questions(ctx, "nope")
		assert.ErrorIs(t, err, ErrProtocolNotFound)
	})

	t.Run("no questions", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "aave").Return(aave, nil)
		f.ques.On("ListByProtocol", ctx, "aave").Return([]model.Question{}, nil)

		_, err := f.svc.Questions(ctx, "aave")
		assert.ErrorIs(t, err, ErrNoQuestions)
	})
}

func TestQuizService_Submit(t *testing.T) {
	ctx := context.Background()
	start := int64(1_699_999_000_000)

	tests := []struct {
		name    string
		req     SubmitRequest
		wantErr error
	}{
		{"missing protocol", SubmitRequest{Answers: specAnswers(), StartTime: ms(start), EndTime: ms(start + 30000)}, ErrInvalidRequest},
		{"nil answers", SubmitRequest{ProtocolID: "aave", StartTime: ms(start), EndTime: ms(start + 30000)}, ErrInvalidRequest},
		{"too few answers", SubmitRequest{ProtocolID: "aave", Answers: map[string]string{"a1": "a1-2"}, StartTime: ms(start), EndTime: ms(start + 30000)}, ErrAnswerCountMismatch},
		{"too many answers", SubmitRequest{ProtocolID: "aave", Answers: func() map[string]string {
			a := specAnswers()
			a["a6"] = "a6-0"
			return a
		}(), StartTime: ms(start), EndTime: ms(start + 30000)}, ErrAnswerCountMismatch},
		{"too fast", SubmitRequest{ProtocolID: "aave", Answers: specAnswers(), StartTime: ms(start), EndTime: ms(start + 24999)}, ErrTooFast},
		{"end before start", SubmitRequest{ProtocolID: "aave", Answers: specAnswers(), StartTime: ms(start), EndTime: ms(start - 1)}, ErrTooFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture(t)
			f.prot.On("FindByID", mock.Anything, "aave").Return(aave, nil).Maybe()
			f.ques.On("ListByProtocol", mock.Anything, "aave").Return(aaveFixture(), nil).Maybe()

			res, err := f.svc.Submit(ctx, tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.submissions.WithLabelValues(OutcomeRejected)))
		})
	}

	t.Run("scores from the answer key", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "aave").Return(aave, nil)
		f.ques.On("ListByProtocol", ctx, "aave").Return(aaveFixture(), nil)

		res, err := f.svc.Submit(ctx, SubmitRequest{
			ProtocolID: "aave",
			Answers:    specAnswers(),
			StartTime:  ms(start),
			EndTime:    ms(start + 30000),
		})

		require.NoError(t, err)
		assert.Equal(t, 4, res.Score)
		assert.Equal(t, 5, res.Total)
		assert.True(t, res.Passed)
		assert.Len(t, res.Token, 64)
		assert.Equal(t, f.now.UnixMilli()+600000, res.ExpiresAt)

		stored, err := f.tokens.Get(ctx, tokenPrefix+res.Token)
		require.NoError(t, err)
		assert.NotContains(t, string(stored), "GHOST")
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.submissions.WithLabelValues(OutcomeAccepted)))
	})

	t.Run("duration check is skipped without both times", func(t *testing.T) {
		cases := map[string]SubmitRequest{
			"no times":   {ProtocolID: "aave", Answers: specAnswers()},
			"only start": {ProtocolID: "aave", Answers: specAnswers(), StartTime: ms(start)},
			"only end":   {ProtocolID: "aave", Answers: specAnswers(), EndTime: ms(start)},
			"zero start": {ProtocolID: "aave", Answers: specAnswers(), StartTime: ms(0), EndTime: ms(start)},
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				f := newQuizFixture(t)
				f.prot.On("FindByID", ctx, "aave").Return(aave, nil)
				f.ques.On("ListByProtocol", ctx, "aave").Return(aaveFixture(), nil)

				res, err := f.svc.Submit(ctx, req)

				require.NoError(t, err)
				assert.Equal(t, 4, res.Score)
				assert.Len(t, res.Token, 64)
			})
		}
	})

	t.Run("exactly the minimum time is accepted", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "aave").Return(aave, nil)
		f.ques.On("ListByProtocol", ctx, "aave").Return(aaveFixture(), nil)

		_, err := f.svc.Submit(ctx, SubmitRequest{ProtocolID: "aave", Answers: specAnswers(), StartTime: ms(start), EndTime: ms(start + 25000)})
		assert.NoError(t, err)
	})

	t.Run("unknown and missing answer ids score zero", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "aave").Return(aave, nil)
		f.ques.On("ListByProtocol", ctx, "aave").Return(aaveFixture(), nil)

		answers := map[string]string{"a1": "bogus", "a2": "", "x": "a3-2", "a4": "a1-2", "a5": "a5-3"}
		res, err := f.svc.Submit(ctx, SubmitRequest{ProtocolID: "aave", Answers: answers, StartTime: ms(start), EndTime: ms(start + 60000)})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Score)
		assert.False(t, res.Passed)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newQuizFixture(t)
		f.prot.On("FindByID", ctx, "aave").Return(nil, errors.New("db down"))

		_, err := f.svc.Submit(ctx, SubmitRequest{ProtocolID: "aave", Answers: specAnswers(), StartTime: ms(start), EndTime: ms(start + 30000)})
		assert.ErrorContains(t, err, "db down")
	})
}

func TestQuizService_Results(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, f *quizFixture, answers map[string]string) string {
		t.Helper()
		f.prot.On("FindByID", mock.Anything, "aave").Return(aave, nil)
		f.ques.On("ListByProtocol", mock.Anything, "aave").Return(aaveFixture(), nil)
		res, err := f.svc.Submit(ctx, SubmitRequest{ProtocolID: "aave", Answers: answers, StartTime: ms(0), EndTime: ms(30000)})
		require.NoError(t, err)
		return res.Token
	}

	t.Run("passed reveals secret", func(t *testing.T) {
		f := newQuizFixture(t)
		token := submit(t, f, specAnswers())

		res, err := f.svc.Results(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, 4, res.Score)
		require.NotNil(t, res.SecretWord)
		assert.Equal(t, "GHOST", *res.SecretWord)
		assert.Equal(t, "Aave V3", res.ProtocolName)

		again, err := f.svc.Results(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, res, again)
	})

	t.Run("failed hides secret", func(t *testing.T) {
		f := newQuizFixture(t)
		token := submit(t, f, map[string]string{"a1": "a1-0", "a2": "a2-0", "a3": "a3-2", "a4": "a4-1", "a5": "a5-0"})

		res, err := f.svc.Results(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, 2, res.Score)
		assert.False(t, res.Passed)
		assert.Nil(t, res.SecretWord)
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.results.WithLabelValues(OutcomeFailed)))
	})

	t.Run("expired token", func(t *testing.T) {
		f := newQuizFixture(t)
		token := submit(t, f, specAnswers())
		f.now = f.now.Add(TokenTTL)

		res, err := f.svc.Results(ctx, token)

		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, res)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newQuizFixture(t)
		_, err := f.svc.Results(ctx, "deadbeef")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.results.WithLabelValues(OutcomeInvalid)))
	})

	t.Run("missing token", func(t *testing.T) {
		f := newQuizFixture(t)
		_, err := f.svc.Results(ctx, "")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("protocol removed", func(t *testing.T) {
		f := newQuizFixture(t)
		require.NoError(t, f.svc.tokens.Set(ctx, "tok", model.QuizToken{Score: 5, Total: 5, ProtocolID: "gone", ExpiresAt: f.now.Add(time.Minute).UnixMilli()}, time.Minute))
		f.prot.On("FindByID", ctx, "gone").Return(nil, repository.ErrNotFound)

		_, err := f.svc.Results(ctx, "tok")
		assert.ErrorIs(t, err, ErrProtocolNotFound)
	})
}

func TestQuizService_SecretIffPassed(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)
	f.prot.On("FindByID", mock.Anything, "aave").Return(aave, nil)

	for score := 0; score <= 5; score++ {
		token := fmt.Sprintf("tok-%d", score)
		require.NoError(t, f.svc.tokens.Set(ctx, token, model.QuizToken{Score: score, Total: 5, ProtocolID: "aave", ExpiresAt: f.now.Add(time.Minute).UnixMilli()}, time.Minute))

		res, err := f.svc.Results(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, score >= PassingScore, res.SecretWord != nil, "score %d", score)
		assert.Equal(t, score >= PassingScore, res.Passed, "score %d", score)
	}
}
