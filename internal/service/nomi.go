package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"defiquiz/internal/model"
	"defiquiz/internal/nomi"
	"defiquiz/internal/repository"
	"defiquiz/internal/storage"
)

const voiceCachePrefix = "voice/"

// NomiClient is the subset of *nomi.Client the proxy uses.
type NomiClient interface {
	ContextUpload(ctx context.Context, req nomi.ContextUploadRequest) (*nomi.ContextUploadResponse, error)
	VoiceSynthesize(ctx context.Context, text, language string) ([]byte, error)
	AgentQuestion(ctx context.Context, req nomi.AgentQuestionRequest) (*nomi.AgentQuestionResponse, error)
	AgentAnalyzeResponse(ctx context.Context, req nomi.AnalyzeRequest) (*nomi.AnalyzeResponseResult, error)
}

// SuggestedQuestion is a question generated from a protocol's docs.
type SuggestedQuestion struct {
	Question        string   `json:"question"`
	SuggestedTopics []string `json:"suggestedTopics"`
}

// NomiService proxies Nomi Echo, feeding it protocol docs from the catalogue.
// Upstream failures are returned as the nomi package's typed errors.
type NomiService interface {
	// ContextUpload uploads a protocol's docs. maxWords of zero selects nomi.DefaultMaxWords.
	ContextUpload(ctx context.Context, protocolID string, maxWords int) (*nomi.ContextUploadResponse, error)

	// SuggestQuestion uploads a protocol's docs and asks for one question about them.
	SuggestQuestion(ctx context.Context, protocolID, topic string) (*SuggestedQuestion, error)

	AgentQuestion(ctx context.Context, req nomi.AgentQuestionRequest) (*nomi.AgentQuestionResponse, error)

	AnalyzeResponse(ctx context.Context, req nomi.AnalyzeRequest) (*nomi.AnalyzeResponseResult, error)

	// Synthesize returns MP3 audio, served from the object cache when possible.
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

type nomiService struct {
	client    NomiClient
	protocols repository.ProtocolRepository
	cache     storage.Storage
}

// NewNomiService constructs a NomiService. cache may be nil to disable voice caching.
func NewNomiService(client NomiClient, protocols repository.ProtocolRepository, cache storage.Storage) NomiService {
	return &nomiService{client: client, protocols: protocols, cache: cache}
}

// buildDocs prefers full docs, then the display name plus description.
func buildDocs(p *model.Protocol) string {
	if docs := strings.TrimSpace(p.Docs); docs != "" {
		return docs
	}
	title := p.DisplayName()
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		return title
	}
	return title + "\n\n" + desc
}

func (s *nomiService) protocolDocs(ctx context.Context, protocolID string) (string, error) {
	protocolID = strings.TrimSpace(protocolID)
	if protocolID == "" {
		return "", fmt.Errorf("%w: protocolId is required", ErrInvalidRequest)
	}

	p, err := s.protocols.FindByID(ctx, protocolID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrProtocolNotFound
		}
		return "", err
	}

	docs := buildDocs(p)
	if strings.TrimSpace(docs) == "" {
		return "", ErrNoDocs
	}
	return docs, nil
}

func (s *nomiService) ContextUpload(ctx context.Context, protocolID string, maxWords int) (*nomi.ContextUploadResponse, error) {
	docs, err := s.protocolDocs(ctx, protocolID)
	if err != nil {
		return nil, err
	}
	if maxWords <= 0 {
		maxWords = nomi.DefaultMaxWords
	}
	return s.client.ContextUpload(ctx, nomi.ContextUploadRequest{Text: docs, MaxWords: maxWords})
}

func (s *nomiService) SuggestQuestion(ctx context.Context, protocolID, topic string) (*SuggestedQuestion, error) {
	docs, err := s.protocolDocs(ctx, protocolID)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.client.ContextUpload(ctx, nomi.ContextUploadRequest{Text: docs, MaxWords: nomi.DefaultMaxWords})
	if err != nil {
		return nil, err
	}

	q, err := s.client.AgentQuestion(ctx, nomi.AgentQuestionRequest{
		ContextID: uploaded.ContextID,
		Topic:     strings.TrimSpace(topic),
	})
	if err != nil {
		return nil, err
	}

	topics := q.SuggestedTopics
	if topics == nil {
		topics = []string{}
	}
	return &SuggestedQuestion{Question: q.Question, SuggestedTopics: topics}, nil
}

func (s *nomiService) AgentQuestion(ctx context.Context, req nomi.AgentQuestionRequest) (*nomi.AgentQuestionResponse, error) {
	req.ContextID = strings.TrimSpace(req.ContextID)
	if req.ContextID == "" {
		return nil, fmt.Errorf("%w: contextId is required", ErrInvalidRequest)
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Topic = strings.TrimSpace(req.Topic)
	return s.client.AgentQuestion(ctx, req)
}

func (s *nomiService) AnalyzeResponse(ctx context.Context, req nomi.AnalyzeRequest) (*nomi.AnalyzeResponseResult, error) {
	if req.Audio == nil {
		return nil, fmt.Errorf("%w: audio is required and must be a non-empty file", ErrInvalidRequest)
	}
	req.ContextID = strings.TrimSpace(req.ContextID)
	if req.ContextID == "" {
		return nil, fmt.Errorf("%w: contextId is required", ErrInvalidRequest)
	}
	req.OriginalQuestion = strings.TrimSpace(req.OriginalQuestion)
	if req.OriginalQuestion == "" {
		return nil, fmt.Errorf("%w: originalQuestion is required", ErrInvalidRequest)
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.OriginalQuestionID = strings.TrimSpace(req.OriginalQuestionID)
	return s.client.AgentAnalyzeResponse(ctx, req)
}

// VoiceCacheKey is the object key of a synthesized clip.
func VoiceCacheKey(text, language string) string {
	sum := sha256.Sum256([]byte(language + "|" + text))
	return voiceCachePrefix + hex.EncodeToString(sum[:]) + ".mp3"
}

func (s *nomiService) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required and cannot be empty", ErrInvalidRequest)
	}
	if language == "" {
		language = nomi.DefaultLanguage
	}

	key := VoiceCacheKey(text, language)
	if audio, ok := s.cached(ctx, key); ok {
		return audio, nil
	}

	audio, err := s.client.VoiceSynthesize(ctx, text, language)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(audio) > 0 {
		_, err := s.cache.Put(ctx, key, bytes.NewReader(audio), storage.PutObjectOptions{
			Size:        int64(len(audio)),
			ContentType: "audio/mpeg",
			Metadata:    map[string]string{"language": language},
		})
		if err != nil {
			slog.WarnContext(ctx, "voice cache write failed", "component", "nomi", "key", key, "error", err)
		}
	}
	return audio, nil
}

// cached reads a clip from the voice cache. Empty objects are evicted.
func (s *nomiService) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}

	rc, info, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "voice cache read failed", "component", "nomi", "key", key, "error", err)
		}
		return nil, false
	}
	defer rc.Close()

	audio, err := io.ReadAll(rc)
	if err != nil {
		slog.WarnContext(ctx, "voice cache read failed", "component", "nomi", "key", key, "error", err)
		return nil, false
	}
	if len(audio) == 0 || info.Size == 0 {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "voice cache evict failed", "component", "nomi", "key", key, "error", err)
		}
		return nil, false
	}
	return audio, true
}
