package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/stemsi/campus-portal/internal/model"
)

// AdminDashboard fetches the system metrics shown on the admin page.
func (c *Conn) AdminDashboard(ctx context.Context) (*model.AdminDashboardData, error) {
	var out model.AdminDashboardData
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard-data", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Conn) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser creates an account with an explicit role.
func (c *Conn) CreateUser(ctx context.Context, in model.NewUser) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodPost, "/admin/create-user", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Conn) UpdateUserRole(ctx context.Context, userID int, role model.Role) (*model.User, error) {
	var out model.User
	path := fmt.Sprintf("/admin/users/%d/role", userID)
	if err := c.do(ctx, http.MethodPut, path, model.RoleUpdate{Role: role}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
