package apiclient

import (
	"Playroom/models"
	"context"
	"net/http"
)

func (c *Client) CreateGroup(ctx context.Context, spec models.GroupSpec) (*models.Group, error) {
	if err := c.acting(spec.AdminID); err != nil {
		return nil, err
	}
	var g models.Group
	if err := c.do(ctx, call{method: http.MethodPost, path: "/groups", body: spec, result: &g}); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var g models.Group
	err := c.do(ctx, call{method: http.MethodGet, path: "/groups/{id}", params: map[string]string{"id": groupID}, result: &g})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	var g models.Group
	err := c.do(ctx, call{method: http.MethodGet, path: "/groups/code/{code}", params: map[string]string{"code": code}, result: &g})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroups returns the caller's groups; the server derives the user from the token
func (c *Client) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	if err := c.acting(userID); err != nil {
		return nil, err
	}
	var groups []models.Group
	if err := c.do(ctx, call{method: http.MethodGet, path: "/groups", result: &groups}); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) JoinGroup(ctx context.Context, code, userID, userName string) (*models.Group, error) {
	if err := c.acting(userID); err != nil {
		return nil, err
	}
	var g models.Group
	err := c.do(ctx, call{method: http.MethodPost, path: "/groups/join", body: map[string]string{"code": code}, result: &g})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) LeaveGroup(ctx context.Context, groupID, userID string) error {
	if err := c.acting(userID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodPost, path: "/groups/{id}/leave", params: map[string]string{"id": groupID}})
}

func (c *Client) UpdateGroup(ctx context.Context, groupID, callerID string, upd models.GroupUpdate) (*models.Group, error) {
	if err := c.acting(callerID); err != nil {
		return nil, err
	}
	var g models.Group
	err := c.do(ctx, call{method: http.MethodPatch, path: "/groups/{id}", params: map[string]string{"id": groupID}, body: upd, result: &g})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	if err := c.acting(callerID); err != nil {
		return err
	}
	return c.do(ctx, call{method: http.MethodDelete, path: "/groups/{id}", params: map[string]string{"id": groupID}})
}
