// Package ask orchestrates the answer pipeline: scheme-name extraction,
// concurrent scheme resolution and web search, prompt assembly, and the
// final model completion, fronted by a TTL cache.
package ask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/janmitra/yojana/observability"
	"github.com/janmitra/yojana/prompt"
	"github.com/janmitra/yojana/qcache"
	"github.com/janmitra/yojana/scheme"
	"github.com/janmitra/yojana/websearch"
)

// ErrEmptyQuestion rejects blank questions before any upstream call.
var ErrEmptyQuestion = errors.New("ask: empty question")

// Completer produces a model completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Resolver looks up scheme details by name.
type Resolver interface {
	Resolve(ctx context.Context, schemeName string) (*scheme.Details, error)
}

// Searcher runs a web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Service answers questions about government welfare schemes.
type Service struct {
	cache    *qcache.Cache[*Response]
	llm      Completer
	resolver Resolver
	search   Searcher
	events   *observability.EventLogger
	logger   *slog.Logger
}

func NewService(cache *qcache.Cache[*Response], llm Completer, resolver Resolver, search Searcher, events *observability.EventLogger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cache:    cache,
		llm:      llm,
		resolver: resolver,
		search:   search,
		events:   events,
		logger:   logger,
	}
}

// Answer resolves a question end to end. Scheme resolution and web search
// failures degrade to partial context; only the final completion is fatal.
func (s *Service) Answer(ctx context.Context, question string) (*Response, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	key := strings.ToLower(question)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug("cache hit", "question", question)
		return cached, nil
	}

	schemeName := s.extractSchemeName(ctx, question)

	var (
		wg      sync.WaitGroup
		details *scheme.Details
		results []websearch.Result
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		d, err := s.resolver.Resolve(ctx, schemeName)
		if err != nil {
			s.logger.Warn("scheme resolution failed", "scheme", schemeName, "error", err)
			return
		}
		details = d
	}()
	go func() {
		defer wg.Done()
		r, err := s.search.Search(ctx, question+" government scheme india")
		if err != nil {
			s.logger.Warn("web search failed", "error", err)
			return
		}
		results = r
	}()
	wg.Wait()

	answer, err := s.llm.Complete(ctx, prompt.Build(question, details, results))
	if err != nil {
		s.logEvent(ctx, question, false)
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = FallbackAnswer
	}

	resp := &Response{
		Success:         true,
		Answer:          answer,
		SchemeDetails:   details,
		SearchResults:   results,
		ApplicationLink: applicationLink(details),
	}
	s.cache.Put(key, resp)
	s.logEvent(ctx, question, true)
	return resp, nil
}

// ClearCache drops every cached answer.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// extractSchemeName asks the model which scheme the question is about.
// Failures just mean resolution proceeds without a name.
func (s *Service) extractSchemeName(ctx context.Context, question string) string {
	name, err := s.llm.Complete(ctx, prompt.ExtractionPrompt(question))
	if err != nil {
		s.logger.Warn("scheme name extraction failed", "error", err)
		return ""
	}
	return strings.TrimSpace(name)
}

func applicationLink(details *scheme.Details) string {
	if details != nil && details.ApplicationLink != "" {
		return details.ApplicationLink
	}
	return DefaultApplicationLink
}

func (s *Service) logEvent(ctx context.Context, question string, success bool) {
	if s.events == nil {
		return
	}
	s.events.LogEvent(ctx, observability.BusinessEvent{
		EventType:  "question_answered",
		EntityType: "question",
		Action:     "answer",
		Details:    question,
		Success:    success,
	})
}
