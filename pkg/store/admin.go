package store

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/tutorchat/client/pkg/domain"
)

type AdminAPI interface {
	Dashboard(ctx context.Context) (domain.DashboardStats, error)
	Users(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, reg domain.Registration) (domain.User, error)
	UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UsageSeries(ctx context.Context, days int) ([]domain.UsagePoint, error)
	TopTopics(ctx context.Context, limit int) ([]domain.TopicUsage, error)
}

// AdminStore backs the administrative dashboards: user management plus
// analytics. Same loading/error contract as the other stores.
type AdminStore struct {
	api AdminAPI

	mu        sync.RWMutex
	stats     domain.DashboardStats
	users     []domain.User
	usage     []domain.UsagePoint
	topTopics []domain.TopicUsage
	loading   bool
	lastErr   string
}

func NewAdminStore(api AdminAPI) *AdminStore {
	return &AdminStore{api: api}
}

func (s *AdminStore) FetchDashboard(ctx context.Context) error {
	s.setLoading()

	stats, err := s.api.Dashboard(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) FetchUsers(ctx context.Context) error {
	s.setLoading()

	users, err := s.api.Users(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) CreateUser(ctx context.Context, reg domain.Registration) error {
	s.setLoading()

	user, err := s.api.CreateUser(ctx, reg)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.users = append(s.users, user)
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) error {
	s.setLoading()

	updated, err := s.api.UpdateUser(ctx, id, patch)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	if _, idx, ok := lo.FindIndexOf(s.users, func(u domain.User) bool { return u.ID == id }); ok {
		s.users[idx] = updated
	}
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) DeleteUser(ctx context.Context, id int64) error {
	s.setLoading()

	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.users = lo.Filter(s.users, func(u domain.User, _ int) bool { return u.ID != id })
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) FetchUsage(ctx context.Context, days int) error {
	s.setLoading()

	points, err := s.api.UsageSeries(ctx, days)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.usage = points
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) FetchTopTopics(ctx context.Context, limit int) error {
	s.setLoading()

	topics, err := s.api.TopTopics(ctx, limit)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.topTopics = topics
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *AdminStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *AdminStore) Stats() domain.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *AdminStore) UsersList() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

func (s *AdminStore) Usage() []domain.UsagePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UsagePoint, len(s.usage))
	copy(out, s.usage)
	return out
}

func (s *AdminStore) TopTopics() []domain.TopicUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TopicUsage, len(s.topTopics))
	copy(out, s.topTopics)
	return out
}

func (s *AdminStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AdminStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AdminStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.lastErr = ""
}

func (s *AdminStore) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
}
