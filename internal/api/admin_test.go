package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

func TestSearchUser_SendsIdentityHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Id") != "111111" {
			t.Errorf("expected X-User-Id 111111, got %q", r.Header.Get("X-User-Id"))
		}
		query := r.URL.Query()
		if query.Get("action") != "search" || query.Get("user_id") != "222222" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		jsonResponse(t, w, 200, models.AdminUser{UserID: "222222", Username: "bob"})
	}))
	defer srv.Close()

	client := testClient("", "", srv.URL)
	user, err := client.SearchUser(context.Background(), "111111", "222222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "bob" {
		t.Errorf("expected username bob, got %s", user.Username)
	}
}

func TestSearchUser_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, 404, map[string]string{"error": "User not found"})
	}))
	defer srv.Close()

	client := testClient("", "", srv.URL)
	_, err := client.SearchUser(context.Background(), "111111", "999999")

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
	if notFound.Message != "User not found" {
		t.Errorf("expected server message, got %q", notFound.Message)
	}
}

func TestGrantAdmin_RejectedForNonAdmin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, 403, map[string]string{"error": "Admin access required"})
	}))
	defer srv.Close()

	client := testClient("", "", srv.URL)
	err := client.GrantAdmin(context.Background(), "111111", "222222")

	var adminErr *AdminError
	if !errors.As(err, &adminErr) {
		t.Fatalf("expected AdminError, got %T: %v", err, err)
	}
	if adminErr.Message != "Admin access required" {
		t.Errorf("expected server message, got %q", adminErr.Message)
	}
}

func TestAdminActions_PostExpectedBody(t *testing.T) {
	actions := map[string]func(*Client) error{
		"block": func(c *Client) error {
			return c.BlockUser(context.Background(), "111111", "222222")
		},
		"unblock": func(c *Client) error {
			return c.UnblockUser(context.Background(), "111111", "222222")
		},
		"grant_admin": func(c *Client) error {
			return c.GrantAdmin(context.Background(), "111111", "222222")
		},
		"revoke_admin": func(c *Client) error {
			return c.RevokeAdmin(context.Background(), "111111", "222222")
		},
		"delete": func(c *Client) error {
			return c.DeleteUser(context.Background(), "111111", "222222")
		},
	}

	for action, call := range actions {
		t.Run(action, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("X-User-Id") != "111111" {
					t.Errorf("expected X-User-Id 111111, got %q", r.Header.Get("X-User-Id"))
				}
				body := decodeBody(t, r)
				if body["action"] != action {
					t.Errorf("expected action %s, got %v", action, body["action"])
				}
				if body["user_id"] != "222222" {
					t.Errorf("expected user_id 222222, got %v", body["user_id"])
				}
				jsonResponse(t, w, 200, map[string]string{"status": "ok"})
			}))
			defer srv.Close()

			if err := call(testClient("", "", srv.URL)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetAllUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(t, w, 200, []models.AdminUser{
			{UserID: "111111", Username: "alice", IsAdmin: true},
			{UserID: "222222", Username: "bob", IsBlocked: true},
		})
	}))
	defer srv.Close()

	client := testClient("", "", srv.URL)
	users, err := client.GetAllUsers(context.Background(), "111111")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if !users[0].IsAdmin || !users[1].IsBlocked {
		t.Error("expected flags preserved from response")
	}
}

func TestNotifyAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["action"] != "notify_all" {
			t.Errorf("expected action notify_all, got %v", body["action"])
		}
		if body["message"] != "maintenance at noon" {
			t.Errorf("unexpected message: %v", body["message"])
		}
		jsonResponse(t, w, 200, map[string]int{"recipients": 7})
	}))
	defer srv.Close()

	client := testClient("", "", srv.URL)
	recipients, err := client.NotifyAll(context.Background(), "111111", "maintenance at noon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recipients != 7 {
		t.Errorf("expected 7 recipients, got %d", recipients)
	}
}
