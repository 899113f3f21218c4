package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

type memoryStore struct {
	mu           sync.Mutex
	accounts     map[int64]*domain.Account
	applications map[int64]*domain.Application
	nextID       int64
	clock        time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts:     map[int64]*domain.Account{},
		applications: map[int64]*domain.Application{},
		clock:        time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) CreateAccount(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return domain.ErrDuplicateIdentity
		}
		if account.Role == domain.RoleHR && a.Role == domain.RoleHR {
			return domain.ErrDuplicateIdentity
		}
	}
	account.ID = m.id()
	account.CreatedAt = m.clock
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

func (m *memoryStore) GetAccountByID(_ context.Context, id int64) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (m *memoryStore) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) GetHRAccount(_ context.Context) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Role == domain.RoleHR {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memoryStore) ListAccounts(_ context.Context, role *domain.Role, active *bool) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Account, 0)
	for _, a := range m.accounts {
		if role != nil && a.Role != *role {
			continue
		}
		if active != nil && a.IsActive != *active {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryStore) UpdateAccount(_ context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

func (m *memoryStore) CreateApplication(_ context.Context, app *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.Contact == app.Contact || (app.Email != "" && strings.EqualFold(a.Email, app.Email)) {
			return domain.ErrDuplicateSubmission
		}
	}
	app.ID = m.id()
	m.clock = m.clock.Add(time.Minute)
	app.SubmittedAt = m.clock
	app.UpdatedAt = m.clock
	stored := *app
	m.applications[app.ID] = &stored
	return nil
}

func (m *memoryStore) ContactOrEmailExists(_ context.Context, contact, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.applications {
		if a.Contact == contact || (email != "" && strings.EqualFold(a.Email, email)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStore) GetApplication(_ context.Context, id int64) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (m *memoryStore) ListApplications(_ context.Context, filter domain.ApplicationFilter) ([]*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Application, 0)
	for _, a := range m.applications {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Department != "" && a.Department != filter.Department {
			continue
		}
		if filter.From != nil && a.SubmittedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && a.SubmittedAt.After(*filter.To) {
			continue
		}
		if filter.AssignedHODID != nil && !a.IsAssignedTo(*filter.AssignedHODID) {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Ascending {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memoryStore) UpdateApplicationLifecycle(_ context.Context, app *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.applications[app.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = app.Status
	stored.AssignedHODID = app.AssignedHODID
	stored.HODRemarks = app.HODRemarks
	return nil
}

func (m *memoryStore) DepartmentStats(_ context.Context) ([]domain.DepartmentStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[domain.DepartmentStat]int{}
	for _, a := range m.applications {
		counts[domain.DepartmentStat{Department: a.Department, Status: a.Status}]++
	}
	out := make([]domain.DepartmentStat, 0, len(counts))
	for k, n := range counts {
		k.Count = n
		out = append(out, k)
	}
	return out, nil
}

// setStatus mutates a record directly, the way the admin tool does.
func (m *memoryStore) setStatus(id int64, status domain.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applications[id].Status = status
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	fail bool
}

func (n *recordingNotifier) Notify(_ context.Context, notification domain.Notification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return !n.fail
}

func (n *recordingNotifier) byTemplate(id domain.TemplateID) []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []domain.Notification
	for _, s := range n.sent {
		if s.Template == id {
			out = append(out, s)
		}
	}
	return out
}

// plainHasher keeps tests fast; bcrypt is covered separately.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) bool { return hash == "hashed:"+password }
