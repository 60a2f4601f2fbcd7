package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// --- Fakes ---

type fakeStore struct {
	mu         sync.Mutex
	pending    map[string]*model.PendingLog
	rows       map[string]*model.Record
	goals      map[string]*model.Goals
	failInsert error
	// failCreateAt makes the nth pending Create fail; zero disables it
	failCreateAt int
	creates      int
	mutations    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pending: map[string]*model.PendingLog{},
		rows:    map[string]*model.Record{},
		goals:   map[string]*model.Goals{},
	}
}

func (f *fakeStore) Logs() store.Logs           { return &fakeLogs{f} }
func (f *fakeStore) Pending() store.Pending     { return &fakePending{f} }
func (f *fakeStore) Summaries() store.Summaries { return fakeSummaries{} }
func (f *fakeStore) Goals() store.Goals         { return &fakeGoals{f} }

func (f *fakeStore) rowsOf(kind model.Kind) []*model.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Record
	for _, r := range f.rows {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out
}

type fakePending struct{ p *fakeStore }

func (fp *fakePending) Create(_ context.Context, pl *model.PendingLog) (*model.PendingLog, error) {
	fp.p.mu.Lock()
	defer fp.p.mu.Unlock()
	fp.p.creates++
	if fp.p.failCreateAt > 0 && fp.p.creates == fp.p.failCreateAt {
		return nil, errors.New("insert pending: connection reset")
	}
	out := *pl
	out.ID = uuid.New().String()
	out.CreatedAt = time.Now()
	fp.p.pending[out.ID] = &out
	fp.p.mutations++
	return &out, nil
}

func (fp *fakePending) Get(_ context.Context, id string) (*model.PendingLog, error) {
	fp.p.mu.Lock()
	defer fp.p.mu.Unlock()
	pl, ok := fp.p.pending[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return pl, nil
}

func (fp *fakePending) Delete(_ context.Context, id string) error {
	fp.p.mu.Lock()
	defer fp.p.mu.Unlock()
	if _, ok := fp.p.pending[id]; !ok {
		return model.ErrNotFound
	}
	delete(fp.p.pending, id)
	fp.p.mutations++
	return nil
}

func (fp *fakePending) Commit(_ context.Context, pendingID string, r *model.Record) (*model.Record, error) {
	fp.p.mu.Lock()
	defer fp.p.mu.Unlock()
	if _, ok := fp.p.pending[pendingID]; !ok {
		return nil, model.ErrNotFound
	}
	if fp.p.failInsert != nil {
		return nil, fp.p.failInsert
	}
	out := *r
	out.ID = pendingID
	if _, dup := fp.p.rows[pendingID]; !dup {
		fp.p.rows[pendingID] = &out
	}
	delete(fp.p.pending, pendingID)
	fp.p.mutations += 2
	return &out, nil
}

type fakeLogs struct{ p *fakeStore }

func (l *fakeLogs) Insert(context.Context, *model.Record) (*model.Record, error) { panic("unused") }

func (l *fakeLogs) List(_ context.Context, req model.ListLogsRequest) ([]*model.Record, error) {
	out := l.p.rowsOf(req.Kind)
	sort.Slice(out, func(i, j int) bool { return out[i].Entry.When().Before(out[j].Entry.When()) })
	return out, nil
}

func (l *fakeLogs) Get(_ context.Context, kind model.Kind, userID, id string) (*model.Record, error) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	r, ok := l.p.rows[id]
	if !ok || r.UserID != userID || r.Kind() != kind {
		return nil, model.ErrNotFound
	}
	return r, nil
}

func (l *fakeLogs) Update(_ context.Context, r *model.Record) (*model.Record, error) {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	cur, ok := l.p.rows[r.ID]
	if !ok || cur.UserID != r.UserID || cur.Kind() != r.Kind() {
		return nil, model.ErrNotFound
	}
	out := *r
	l.p.rows[r.ID] = &out
	return &out, nil
}

func (l *fakeLogs) Delete(_ context.Context, kind model.Kind, userID, id string) error {
	l.p.mu.Lock()
	defer l.p.mu.Unlock()
	cur, ok := l.p.rows[id]
	if !ok || cur.UserID != userID || cur.Kind() != kind {
		return model.ErrNotFound
	}
	delete(l.p.rows, id)
	return nil
}

type fakeSummaries struct{}

func (fakeSummaries) Get(context.Context, string, string) (*model.WorkoutSummary, error) {
	panic("unused")
}
func (fakeSummaries) Upsert(context.Context, *model.WorkoutSummary) (*model.WorkoutSummary, error) {
	panic("unused")
}

type fakeGoals struct{ p *fakeStore }

func (g *fakeGoals) Get(_ context.Context, userID string) (*model.Goals, error) {
	v, ok := g.p.goals[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return v, nil
}

func (g *fakeGoals) Upsert(_ context.Context, in *model.Goals) (*model.Goals, error) {
	out := *in
	g.p.goals[in.UserID] = &out
	return &out, nil
}

var errDiskFull = errors.New("disk full")
