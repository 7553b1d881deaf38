package service

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jimyag/taxo/internal/taxo/cache"
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/internal/taxo/repository"
	"github.com/stretchr/testify/require"
)

// testEnv 每个测试用例独立的数据库、缓存和服务
type testEnv struct {
	Service  *TermService
	Store    *repository.Store
	Registry *registry.Registry
	Cache    *cache.Cache
	Events   *eventRecorder
}

// eventRecorder 记录收到的事件
type eventRecorder struct {
	mu     sync.Mutex
	events []*event.Event
}

func (r *eventRecorder) handle(_ context.Context, e *event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *eventRecorder) last(t event.Type) *event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i]
		}
	}
	return nil
}

func setupTestDB(t *testing.T) *repository.Repository {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := repository.New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})
	return repo
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	ctx := context.Background()

	repo := setupTestDB(t)
	recorder := &eventRecorder{}
	dispatcher := event.NewDispatcher()
	dispatcher.SubscribeAll(recorder.handle)

	reg := registry.New(dispatcher)
	require.NoError(t, reg.RegisterBuiltins(ctx))
	_, err := reg.Register(ctx, "color", []string{"post"}, registry.Args{})
	require.NoError(t, err)
	_, err = reg.Register(ctx, "series", []string{"post"}, registry.Args{Sort: true})
	require.NoError(t, err)

	c := cache.New(cache.NewMemoryBackend(time.Minute), cache.Config{DefaultTTL: time.Hour})
	store := repo.Store()

	return &testEnv{
		Service:  NewTermService(store, reg, c, dispatcher, opts),
		Store:    store,
		Registry: reg,
		Cache:    c,
		Events:   recorder,
	}
}

func mustInsert(t *testing.T, svc *TermService, name, taxonomy string, opts InsertTermOptions) *entity.TermIDs {
	t.Helper()
	ids, err := svc.InsertTerm(context.Background(), name, taxonomy, opts)
	require.NoError(t, err)
	require.NotNil(t, ids)
	return ids
}

func mustGetTerm(t *testing.T, svc *TermService, termID uint64, taxonomy string) *entity.Term {
	t.Helper()
	term, err := svc.GetTerm(context.Background(), termID, taxonomy)
	require.NoError(t, err)
	require.NotNil(t, term)
	return term
}

func termNames(terms []*entity.Term) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		out = append(out, term.Name)
	}
	return out
}

func refNames(values ...string) []entity.TermRef {
	out := make([]entity.TermRef, 0, len(values))
	for _, v := range values {
		out = append(out, entity.TermRefName(v))
	}
	return out
}

func refIDs(values ...uint64) []entity.TermRef {
	out := make([]entity.TermRef, 0, len(values))
	for _, v := range values {
		out = append(out, entity.TermRefID(v))
	}
	return out
}
