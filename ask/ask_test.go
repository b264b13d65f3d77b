package ask

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/janmitra/yojana/dbopen"
	"github.com/janmitra/yojana/qcache"
	"github.com/janmitra/yojana/scheme"
	"github.com/janmitra/yojana/websearch"
	_ "modernc.org/sqlite"
)

// fakeLLM answers extraction prompts with schemeName and everything else
// with answer. It counts generation calls so caching can be asserted.
type fakeLLM struct {
	mu         sync.Mutex
	schemeName string
	answer     string
	extractErr error
	answerErr  error
	genCalls   int
}

func (f *fakeLLM) Complete(_ context.Context, p string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.HasPrefix(p, "Extract only the government scheme name") {
		return f.schemeName, f.extractErr
	}
	f.genCalls += 1
	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answer, nil
}

type fakeResolver struct {
	details *scheme.Details
	err     error
}

func (f *fakeResolver) Resolve(context.Context, string) (*scheme.Details, error) {
	return f.details, f.err
}

type fakeSearcher struct {
	results []websearch.Result
	err     error
	query   string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]websearch.Result, error) {
	f.query = query
	return f.results, f.err
}

func newService(llm Completer, resolver Resolver, search Searcher, opts ...qcache.Option[*Response]) *Service {
	cache := qcache.New[*Response](qcache.DefaultTTL, opts...)
	return NewService(cache, llm, resolver, search, nil, slog.New(slog.DiscardHandler))
}

// WHAT: a question runs the full pipeline and the search query is suffixed
// with the scheme context terms.
func TestAnswer(t *testing.T) {
	llm := &fakeLLM{schemeName: "PMAY", answer: "PMAY provides housing subsidies."}
	resolver := &fakeResolver{details: &scheme.Details{Name: "PMAY", ApplicationLink: "https://pmay.gov.in/apply"}}
	search := &fakeSearcher{results: []websearch.Result{{Title: "PMAY", Snippet: "Housing for all", URL: "https://pmay.gov.in"}}}
	svc := newService(llm, resolver, search)

	resp, err := svc.Answer(context.Background(), "How do I apply for PMAY?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Answer != llm.answer {
		t.Errorf("answer = %q, want %q", resp.Answer, llm.answer)
	}
	if resp.SchemeDetails == nil || resp.SchemeDetails.Name != "PMAY" {
		t.Errorf("schemeDetails = %+v, want PMAY", resp.SchemeDetails)
	}
	if resp.ApplicationLink != "https://pmay.gov.in/apply" {
		t.Errorf("applicationLink = %q, want scheme's own link", resp.ApplicationLink)
	}
	if want := "How do I apply for PMAY? government scheme india"; search.query != want {
		t.Errorf("search query = %q, want %q", search.query, want)
	}
}

// WHAT: repeated questions differing only in case hit the cache, so the
// model generates exactly once.
func TestAnswerCached(t *testing.T) {
	llm := &fakeLLM{answer: "cached answer"}
	svc := newService(llm, &fakeResolver{}, &fakeSearcher{})
	ctx := context.Background()

	first, err := svc.Answer(ctx, "What is Ayushman Bharat?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	second, err := svc.Answer(ctx, "WHAT IS AYUSHMAN BHARAT?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if first != second {
		t.Error("case-insensitive repeat did not return the cached response")
	}
	if llm.genCalls != 1 {
		t.Errorf("generation calls = %d, want 1", llm.genCalls)
	}
}

// WHAT: after the TTL passes, the next ask regenerates.
func TestAnswerCacheExpiry(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	llm := &fakeLLM{answer: "fresh"}
	svc := newService(llm, &fakeResolver{}, &fakeSearcher{}, qcache.WithClock[*Response](func() time.Time { return clock() }))
	ctx := context.Background()

	if _, err := svc.Answer(ctx, "q"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	now = now.Add(qcache.DefaultTTL)
	if _, err := svc.Answer(ctx, "q"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if llm.genCalls != 2 {
		t.Errorf("generation calls = %d, want 2 after expiry", llm.genCalls)
	}
}

// WHAT: resolution, search and extraction failures all degrade; the answer
// is still produced with the default application link.
func TestAnswerDegraded(t *testing.T) {
	llm := &fakeLLM{extractErr: errors.New("extraction down"), answer: "best effort"}
	svc := newService(llm,
		&fakeResolver{err: errors.New("registry down")},
		&fakeSearcher{err: errors.New("search down")})

	resp, err := svc.Answer(context.Background(), "any welfare help?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if resp.Answer != "best effort" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.SchemeDetails != nil {
		t.Errorf("schemeDetails = %+v, want nil", resp.SchemeDetails)
	}
	if len(resp.SearchResults) != 0 {
		t.Errorf("searchResults = %v, want empty", resp.SearchResults)
	}
	if resp.ApplicationLink != DefaultApplicationLink {
		t.Errorf("applicationLink = %q, want default", resp.ApplicationLink)
	}
}

// WHAT: a failed final completion is fatal and nothing is cached.
func TestAnswerGenerationFailure(t *testing.T) {
	llm := &fakeLLM{answerErr: errors.New("model down")}
	svc := newService(llm, &fakeResolver{}, &fakeSearcher{})

	if _, err := svc.Answer(context.Background(), "q"); err == nil {
		t.Fatal("answer succeeded, want error")
	}
	if svc.cache.Len() != 0 {
		t.Errorf("cache has %d entries after failure, want 0", svc.cache.Len())
	}
}

// WHAT: an empty completion falls back to a canned message.
func TestAnswerEmptyCompletion(t *testing.T) {
	svc := newService(&fakeLLM{answer: "  "}, &fakeResolver{}, &fakeSearcher{})
	resp, err := svc.Answer(context.Background(), "q")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if resp.Answer != FallbackAnswer {
		t.Errorf("answer = %q, want %q", resp.Answer, FallbackAnswer)
	}
}

// WHAT: blank questions are rejected up front.
func TestAnswerEmptyQuestion(t *testing.T) {
	svc := newService(&fakeLLM{}, &fakeResolver{}, &fakeSearcher{})
	if _, err := svc.Answer(context.Background(), "   "); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("err = %v, want ErrEmptyQuestion", err)
	}
}

// WHAT: end to end with a real resolver: the extracted name misses the
// local store, hits the registry, and the match is persisted locally.
func TestAnswerResolvesAndPersists(t *testing.T) {
	db := dbopen.OpenMemory(t)
	if _, err := db.Exec(scheme.Schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	store := scheme.NewStore(db)

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") != "PMAY" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`[{"name":"Pradhan Mantri Awas Yojana","description":"Housing for all by 2022"}]`))
	}))
	defer registry.Close()

	logger := slog.New(slog.DiscardHandler)
	resolver := scheme.NewResolver(store, scheme.NewRegistry(registry.URL, registry.Client()), nil, logger)

	llm := &fakeLLM{schemeName: "PMAY", answer: "Apply via your municipal office."}
	search := &fakeSearcher{results: []websearch.Result{
		{Title: "a", Snippet: "s1", URL: "https://pmay.gov.in"},
		{Title: "b", Snippet: "s2", URL: "https://india.gov.in"},
		{Title: "c", Snippet: "s3", URL: "https://nic.in"},
	}}
	svc := NewService(qcache.New[*Response](qcache.DefaultTTL), llm, resolver, search, nil, logger)

	resp, err := svc.Answer(context.Background(), "How do I get a PMAY house?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if resp.SchemeDetails == nil || resp.SchemeDetails.Name != "Pradhan Mantri Awas Yojana" {
		t.Fatalf("schemeDetails = %+v, want registry match", resp.SchemeDetails)
	}
	if len(resp.SearchResults) != 3 {
		t.Errorf("searchResults = %d, want 3", len(resp.SearchResults))
	}

	rec, err := store.FindLocal(context.Background(), "Pradhan Mantri Awas")
	if err != nil {
		t.Fatalf("find local: %v", err)
	}
	if rec == nil {
		t.Error("registry match was not persisted to the local store")
	}
}
