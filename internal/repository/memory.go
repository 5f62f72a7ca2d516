package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/funding"
	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// MemoryStore keeps projects, pledges and updates in process memory.
// One mutex serializes every write, so the pledge guard and the aggregate
// update happen atomically per store. Used for local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*model.Project
	pledges  []*model.Pledge
	updates  []*model.Update
	now      func() time.Time
}

// NewMemoryStore は空のインメモリストアを生成する
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*model.Project),
		now:      time.Now,
	}
}

// SetClock replaces the clock used for created_at (tests).
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Projects returns the ProjectRepository view of the store.
func (s *MemoryStore) Projects() ProjectRepository { return memoryProjects{s} }

// Pledges returns the PledgeRepository view of the store.
func (s *MemoryStore) Pledges() PledgeRepository { return memoryPledges{s} }

// Updates returns the UpdateRepository view of the store.
func (s *MemoryStore) Updates() UpdateRepository { return memoryUpdates{s} }

type memoryProjects struct{ s *MemoryStore }

func (r memoryProjects) List(ctx context.Context, sort model.ProjectSort) ([]*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*model.Project, 0, len(r.s.projects))
	for _, p := range r.s.projects {
		cp := *p
		out = append(out, &cp)
	}
	column, ascending := sort.OrderColumn()
	slices.SortStableFunc(out, func(a, b *model.Project) int {
		var c int
		switch column {
		case "current_amount":
			c = cmp.Compare(a.CurrentAmount, b.CurrentAmount)
		case "end_date":
			c = a.EndDate.Compare(b.EndDate.Time)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if !ascending {
			c = -c
		}
		if c == 0 {
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		return c
	})
	return out, nil
}

func (r memoryProjects) GetByID(ctx context.Context, id string) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memoryProjects) Create(ctx context.Context, p *model.Project) error {
	if p.Title == "" || p.GoalAmount <= 0 {
		return ErrConstraint
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = uuid.NewString()
	p.CreatedAt = r.s.now()
	p.CurrentAmount = 0
	p.BackerCount = 0
	cp := *p
	r.s.projects[p.ID] = &cp
	return nil
}

type memoryPledges struct{ s *MemoryStore }

func (r memoryPledges) ListByProjectID(ctx context.Context, projectID string) ([]*model.Pledge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Pledge
	for _, p := range r.s.pledges {
		if p.ProjectID == projectID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memoryPledges) Create(ctx context.Context, p *model.Pledge) error {
	if funding.Cents(p.Amount) <= 0 {
		return ErrInvalidAmount
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project, ok := r.s.projects[p.ProjectID]
	if !ok {
		return ErrNotFound
	}
	if funding.ExceedsRemaining(p.Amount, project.GoalAmount, project.CurrentAmount) {
		return ErrExceedsRemaining
	}

	firstFromUser := !slices.ContainsFunc(r.s.pledges, func(e *model.Pledge) bool {
		return e.ProjectID == p.ProjectID && e.UserID == p.UserID
	})
	p.ID = uuid.NewString()
	p.CreatedAt = r.s.now()
	cp := *p
	r.s.pledges = append(r.s.pledges, &cp)

	project.CurrentAmount = float64(funding.Cents(project.CurrentAmount)+funding.Cents(p.Amount)) / 100
	if firstFromUser {
		project.BackerCount++
	}
	return nil
}

type memoryUpdates struct{ s *MemoryStore }

func (r memoryUpdates) ListByProjectID(ctx context.Context, projectID string) ([]*model.Update, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Update
	// 追加順に保持しているので逆順に走査すると新しい順になる
	for i := len(r.s.updates) - 1; i >= 0; i-- {
		if u := r.s.updates[i]; u.ProjectID == projectID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memoryUpdates) Create(ctx context.Context, u *model.Update) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project, ok := r.s.projects[u.ProjectID]
	if !ok {
		return ErrNotFound
	}
	if project.UserID != u.UserID {
		return ErrNotOwner
	}
	u.ID = uuid.NewString()
	u.CreatedAt = r.s.now()
	cp := *u
	r.s.updates = append(r.s.updates, &cp)
	return nil
}
