package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

// GetChats returns the user's conversation summaries: everyone they
// have exchanged messages with plus accepted friends.
func (c *Client) GetChats(ctx context.Context, userID string) ([]models.Chat, error) {
	query := url.Values{}
	query.Set("action", "chats")
	query.Set("user_id", userID)

	status, body, err := c.get(ctx, c.messagesURL, query, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("chats request returned status %d", status)
	}

	var chats []models.Chat
	if err := decode(body, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetMessages returns the full conversation between the two users,
// ascending by creation order.
func (c *Client) GetMessages(ctx context.Context, userID, otherUserID string) ([]models.Message, error) {
	query := url.Values{}
	query.Set("action", "messages")
	query.Set("user_id", userID)
	query.Set("other_user_id", otherUserID)

	status, body, err := c.get(ctx, c.messagesURL, query, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("messages request returned status %d", status)
	}

	var messages []models.Message
	if err := decode(body, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a message. The sent message is not echoed back;
// it appears through the next fetch of the conversation.
func (c *Client) SendMessage(ctx context.Context, senderID, receiverID, text string) error {
	status, body, err := c.post(ctx, c.messagesURL, map[string]string{
		"action":      "send",
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"message":     text,
	}, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("send failed: %s", serverMessage(body, fmt.Sprintf("status %d", status)))
	}
	return nil
}

// GetFriendRequests returns the pending requests addressed to the
// user, newest first.
func (c *Client) GetFriendRequests(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	query := url.Values{}
	query.Set("action", "requests")
	query.Set("user_id", userID)

	status, body, err := c.get(ctx, c.messagesURL, query, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("requests request returned status %d", status)
	}

	var requests []models.FriendRequest
	if err := decode(body, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SendFriendRequest invites another user. The server rejects the call
// when the pair is already friends or a request is already pending;
// both rejections surface as a FriendRequestError.
func (c *Client) SendFriendRequest(ctx context.Context, senderID, receiverID string) error {
	status, body, err := c.post(ctx, c.messagesURL, map[string]string{
		"action":      "friend_request",
		"sender_id":   senderID,
		"receiver_id": receiverID,
	}, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return &FriendRequestError{Message: serverMessage(body, "Request failed")}
	}
	return nil
}

// AcceptFriendRequest accepts a pending request, creating the
// friendship in both directions server-side.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID int64) error {
	status, body, err := c.post(ctx, c.messagesURL, map[string]any{
		"action":     "accept_request",
		"request_id": requestID,
	}, nil)
	if err != nil {
		return err
	}
	if status == 404 {
		return &NotFoundError{Message: serverMessage(body, "Request not found")}
	}
	if !is2xx(status) {
		return &FriendRequestError{Message: serverMessage(body, "Accept failed")}
	}
	return nil
}

// GetFriends returns the user's accepted friends, ordered by name.
func (c *Client) GetFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	query := url.Values{}
	query.Set("action", "friends")
	query.Set("user_id", userID)

	status, body, err := c.get(ctx, c.messagesURL, query, nil)
	if err != nil {
		return nil, err
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("friends request returned status %d", status)
	}

	var friends []models.Friend
	if err := decode(body, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// GetTypingStatus reports whether the peer is currently typing to the
// user. Staleness beyond a few seconds decays to false server-side.
func (c *Client) GetTypingStatus(ctx context.Context, userID, otherUserID string) (bool, error) {
	query := url.Values{}
	query.Set("action", "typing_status")
	query.Set("user_id", userID)
	query.Set("other_user_id", otherUserID)

	status, body, err := c.get(ctx, c.messagesURL, query, nil)
	if err != nil {
		return false, err
	}
	if !is2xx(status) {
		return false, fmt.Errorf("typing status request returned status %d", status)
	}

	var result struct {
		IsTyping bool `json:"is_typing"`
	}
	if err := decode(body, &result); err != nil {
		return false, err
	}
	return result.IsTyping, nil
}

// UpdateTypingStatus announces the user's composer state for the
// conversation with the peer.
func (c *Client) UpdateTypingStatus(ctx context.Context, senderID, receiverID string, isTyping bool) error {
	status, body, err := c.post(ctx, c.messagesURL, map[string]any{
		"action":      "typing",
		"sender_id":   senderID,
		"receiver_id": receiverID,
		"is_typing":   isTyping,
	}, nil)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("typing update failed: %s", serverMessage(body, fmt.Sprintf("status %d", status)))
	}
	return nil
}
