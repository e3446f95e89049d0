package store

import (
	"context"
	"errors"
	"testing"

	"github.com/tutorchat/client/pkg/domain"
)

type fakeAdminAPI struct {
	dashboardFn  func(ctx context.Context) (domain.DashboardStats, error)
	usersFn      func(ctx context.Context) ([]domain.User, error)
	createUserFn func(ctx context.Context, reg domain.Registration) (domain.User, error)
	updateUserFn func(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error)
	deleteUserFn func(ctx context.Context, id int64) error
	usageFn      func(ctx context.Context, days int) ([]domain.UsagePoint, error)
	topTopicsFn  func(ctx context.Context, limit int) ([]domain.TopicUsage, error)
}

func (f *fakeAdminAPI) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	return f.dashboardFn(ctx)
}

func (f *fakeAdminAPI) Users(ctx context.Context) ([]domain.User, error) { return f.usersFn(ctx) }

func (f *fakeAdminAPI) CreateUser(ctx context.Context, reg domain.Registration) (domain.User, error) {
	return f.createUserFn(ctx, reg)
}

func (f *fakeAdminAPI) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	return f.updateUserFn(ctx, id, patch)
}

func (f *fakeAdminAPI) DeleteUser(ctx context.Context, id int64) error {
	return f.deleteUserFn(ctx, id)
}

func (f *fakeAdminAPI) UsageSeries(ctx context.Context, days int) ([]domain.UsagePoint, error) {
	return f.usageFn(ctx, days)
}

func (f *fakeAdminAPI) TopTopics(ctx context.Context, limit int) ([]domain.TopicUsage, error) {
	return f.topTopicsFn(ctx, limit)
}

func TestFetchDashboard(t *testing.T) {
	api := &fakeAdminAPI{
		dashboardFn: func(context.Context) (domain.DashboardStats, error) {
			return domain.DashboardStats{TotalUsers: 12, TotalSessions: 40}, nil
		},
	}
	s := NewAdminStore(api)

	if err := s.FetchDashboard(context.Background()); err != nil {
		t.Fatalf("FetchDashboard: %v", err)
	}
	if stats := s.Stats(); stats.TotalUsers != 12 || stats.TotalSessions != 40 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAdminUserLifecycle(t *testing.T) {
	api := &fakeAdminAPI{
		usersFn: func(context.Context) ([]domain.User, error) {
			return []domain.User{{ID: 1, Name: "Ada"}}, nil
		},
		createUserFn: func(_ context.Context, reg domain.Registration) (domain.User, error) {
			return domain.User{ID: 2, Name: reg.Name}, nil
		},
		updateUserFn: func(_ context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
			return domain.User{ID: id, Name: *patch.Name}, nil
		},
		deleteUserFn: func(context.Context, int64) error { return nil },
	}
	s := NewAdminStore(api)
	ctx := context.Background()

	if err := s.FetchUsers(ctx); err != nil {
		t.Fatalf("FetchUsers: %v", err)
	}
	if err := s.CreateUser(ctx, domain.Registration{Name: "Bea"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if users := s.UsersList(); len(users) != 2 || users[1].Name != "Bea" {
		t.Fatalf("users = %+v, want Ada then Bea", users)
	}

	name := "Beatrice"
	if err := s.UpdateUser(ctx, 2, domain.UserPatch{Name: &name}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if users := s.UsersList(); users[1].Name != "Beatrice" {
		t.Errorf("users[1] = %+v, want Beatrice in place", users[1])
	}

	if err := s.DeleteUser(ctx, 1); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if users := s.UsersList(); len(users) != 1 || users[0].ID != 2 {
		t.Errorf("users = %+v, want only id 2", users)
	}
}

func TestFetchUsage_Error(t *testing.T) {
	api := &fakeAdminAPI{
		usageFn: func(context.Context, int) ([]domain.UsagePoint, error) {
			return nil, errors.New("forbidden")
		},
	}
	s := NewAdminStore(api)

	if err := s.FetchUsage(context.Background(), 30); err == nil {
		t.Fatal("expected error")
	}
	if s.LastError() != "forbidden" {
		t.Errorf("lastErr = %q, want forbidden", s.LastError())
	}
	if s.Loading() {
		t.Error("loading must be cleared on failure")
	}
}
