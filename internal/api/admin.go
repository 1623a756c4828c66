package api

import (
	"context"
	"net/url"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

// SearchUser looks up an account by id. The caller's own id travels in
// the identity header; any signed-in user may search.
func (c *Client) SearchUser(ctx context.Context, callerID, searchedID string) (*models.AdminUser, error) {
	query := url.Values{}
	query.Set("action", "search")
	query.Set("user_id", searchedID)

	status, body, err := c.get(ctx, c.adminURL, query, adminHeader(callerID))
	if err != nil {
		return nil, err
	}
	if status == 404 {
		return nil, &NotFoundError{Message: serverMessage(body, "User not found")}
	}
	if !is2xx(status) {
		return nil, &AdminError{Message: serverMessage(body, "Search failed")}
	}

	var user models.AdminUser
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns every registered account, newest first. The
// server rejects non-admin callers.
func (c *Client) GetAllUsers(ctx context.Context, adminUserID string) ([]models.AdminUser, error) {
	query := url.Values{}
	query.Set("action", "users")

	status, body, err := c.get(ctx, c.adminURL, query, adminHeader(adminUserID))
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &AdminError{Message: serverMessage(body, "Admin access required")}
	}

	var users []models.AdminUser
	if err := decode(body, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetAdminLogs returns the moderation audit log, newest first.
func (c *Client) GetAdminLogs(ctx context.Context, adminUserID string) ([]models.AdminLogEntry, error) {
	query := url.Values{}
	query.Set("action", "logs")

	status, body, err := c.get(ctx, c.adminURL, query, adminHeader(adminUserID))
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, &AdminError{Message: serverMessage(body, "Admin access required")}
	}

	var logs []models.AdminLogEntry
	if err := decode(body, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// BlockUser blocks the target account.
func (c *Client) BlockUser(ctx context.Context, adminUserID, targetUserID string) error {
	return c.adminAction(ctx, adminUserID, "block", targetUserID)
}

// UnblockUser lifts a block from the target account.
func (c *Client) UnblockUser(ctx context.Context, adminUserID, targetUserID string) error {
	return c.adminAction(ctx, adminUserID, "unblock", targetUserID)
}

// GrantAdmin gives the target account admin rights.
func (c *Client) GrantAdmin(ctx context.Context, adminUserID, targetUserID string) error {
	return c.adminAction(ctx, adminUserID, "grant_admin", targetUserID)
}

// RevokeAdmin removes the target account's admin rights.
func (c *Client) RevokeAdmin(ctx context.Context, adminUserID, targetUserID string) error {
	return c.adminAction(ctx, adminUserID, "revoke_admin", targetUserID)
}

// DeleteUser removes the target account entirely.
func (c *Client) DeleteUser(ctx context.Context, adminUserID, targetUserID string) error {
	return c.adminAction(ctx, adminUserID, "delete", targetUserID)
}

func (c *Client) adminAction(ctx context.Context, adminUserID, action, targetUserID string) error {
	status, body, err := c.post(ctx, c.adminURL, map[string]string{
		"action":  action,
		"user_id": targetUserID,
	}, adminHeader(adminUserID))
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return &AdminError{Message: serverMessage(body, "Admin access required")}
	}
	return nil
}

// NotifyAll broadcasts a message to every user and returns the
// recipient count.
func (c *Client) NotifyAll(ctx context.Context, adminUserID, message string) (int, error) {
	status, body, err := c.post(ctx, c.adminURL, map[string]string{
		"action":  "notify_all",
		"message": message,
	}, adminHeader(adminUserID))
	if err != nil {
		return 0, err
	}
	if !is2xx(status) {
		return 0, &AdminError{Message: serverMessage(body, "Admin access required")}
	}

	var result struct {
		Recipients int `json:"recipients"`
	}
	if err := decode(body, &result); err != nil {
		return 0, err
	}
	return result.Recipients, nil
}
