package restapi

import (
	"context"
	"fmt"

	"github.com/tutorchat/client/pkg/domain"
)

type AdminAPI struct {
	c *Client
}

func NewAdminAPI(c *Client) *AdminAPI {
	return &AdminAPI{c: c}
}

func (a *AdminAPI) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	if err := a.c.getJSON(ctx, "/admin/dashboard", &stats); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("fetching dashboard: %w", err)
	}
	return stats, nil
}

func (a *AdminAPI) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := a.c.getJSON(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (a *AdminAPI) CreateUser(ctx context.Context, reg domain.Registration) (domain.User, error) {
	var user domain.User
	if err := a.c.postJSON(ctx, "/admin/users", reg, &user); err != nil {
		return domain.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (a *AdminAPI) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (domain.User, error) {
	var user domain.User
	if err := a.c.putJSON(ctx, fmt.Sprintf("/admin/users/%d", id), patch, &user); err != nil {
		return domain.User{}, fmt.Errorf("updating user %d: %w", id, err)
	}
	return user, nil
}

func (a *AdminAPI) DeleteUser(ctx context.Context, id int64) error {
	if err := a.c.deleteJSON(ctx, fmt.Sprintf("/admin/users/%d", id)); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	return nil
}

func (a *AdminAPI) UsageSeries(ctx context.Context, days int) ([]domain.UsagePoint, error) {
	var points []domain.UsagePoint
	if err := a.c.getJSON(ctx, fmt.Sprintf("/admin/analytics/usage?days=%d", days), &points); err != nil {
		return nil, fmt.Errorf("fetching usage series: %w", err)
	}
	return points, nil
}

func (a *AdminAPI) TopTopics(ctx context.Context, limit int) ([]domain.TopicUsage, error) {
	var topics []domain.TopicUsage
	if err := a.c.getJSON(ctx, fmt.Sprintf("/admin/analytics/topics?limit=%d", limit), &topics); err != nil {
		return nil, fmt.Errorf("fetching top topics: %w", err)
	}
	return topics, nil
}
