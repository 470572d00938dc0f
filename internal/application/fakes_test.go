package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/campus-connect/internal/domain/entity"
	repo "github.com/oksasatya/campus-connect/internal/domain/repository"
)

// memAccounts is an in-memory AccountRepository enforcing the same unique
// constraints as the users table.
type memAccounts struct {
	mu       sync.Mutex
	byID     map[string]*entity.Account
	colleges *memColleges
	seq      int
	creates  int

	// failWith makes every call return this error.
	failWith error
	// raceCreate makes Create behave as if a concurrent signup won.
	raceCreate bool
}

func newMemAccounts(colleges *memColleges) *memAccounts {
	return &memAccounts{byID: map[string]*entity.Account{}, colleges: colleges}
}

func (m *memAccounts) clone(a *entity.Account) *entity.Account {
	c := *a
	c.Interests = append([]string(nil), a.Interests...)
	c.Photos = append([]string(nil), a.Photos...)
	if col, ok := m.colleges.byID[a.CollegeID]; ok {
		cc := *col
		c.College = &cc
	}
	return &c
}

func (m *memAccounts) FindByUsername(_ context.Context, username string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.byID {
		if strings.EqualFold(a.Username, username) {
			return m.clone(a), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memAccounts) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, a := range m.byID {
		if a.Email == email {
			return m.clone(a), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return m.clone(a), nil
}

func (m *memAccounts) Create(_ context.Context, a *entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.raceCreate {
		return repo.ErrUniqueViolation
	}
	for _, e := range m.byID {
		if strings.EqualFold(e.Username, a.Username) || e.Email == a.Email {
			return repo.ErrUniqueViolation
		}
	}
	m.seq++
	m.creates++
	a.ID = fmt.Sprintf("acc-%d", m.seq)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	m.byID[a.ID] = &stored
	return nil
}

func (m *memAccounts) UpdateProfile(_ context.Context, id, bio string, interests, photos []string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	a.Bio = bio
	a.Interests = append([]string(nil), interests...)
	a.Photos = append([]string(nil), photos...)
	return m.clone(a), nil
}

func (m *memAccounts) UpdatePreferences(_ context.Context, id string, p entity.Preferences) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	a.Preferences = p
	a.IsOnboarded = true
	return m.clone(a), nil
}

type memColleges struct {
	byID     map[string]*entity.College
	failWith error
	lists    int
}

func newMemColleges(cs ...entity.College) *memColleges {
	m := &memColleges{byID: map[string]*entity.College{}}
	for i := range cs {
		c := cs[i]
		m.byID[c.ID] = &c
	}
	return m
}

func (m *memColleges) GetByID(_ context.Context, id string) (*entity.College, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	c, ok := m.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (m *memColleges) ListApproved(_ context.Context) ([]entity.College, error) {
	m.lists++
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []entity.College{}
	for _, c := range m.byID {
		if c.IsApproved {
			out = append(out, *c)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body)
	return p.err
}

type recordingIndexer struct {
	indexed []string
	err     error
}

func (r *recordingIndexer) IndexProfile(_ context.Context, a *entity.Account) error {
	r.indexed = append(r.indexed, a.ID)
	return r.err
}

type failingIssuer struct{ err error }

func (f failingIssuer) GenerateToken(string) (string, time.Time, error) {
	return "", time.Time{}, f.err
}
