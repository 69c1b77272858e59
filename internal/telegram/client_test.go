package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botsecret/getMe" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"ok":true,"result":{"id":7,"first_name":"Meteo","username":"meteobot"}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)
	me, err := client.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != 7 || me.Username != "meteobot" {
		t.Errorf("GetMe returned %+v", me)
	}
}

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/getUpdates") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var payload struct {
			Offset  int64 `json:"offset"`
			Timeout int   `json:"timeout"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Offset != 41 {
			t.Errorf("offset = %d, want 41", payload.Offset)
		}
		if payload.Timeout != PollTimeout {
			t.Errorf("timeout = %d, want %d", payload.Timeout, PollTimeout)
		}
		w.Write([]byte(`{"ok":true,"result":[{"update_id":41,"message":{"message_id":1,"from":{"id":100},"chat":{"id":100},"text":"/weather Paris"}}]}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)
	updates, err := client.GetUpdates(context.Background(), 41)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(updates))
	}
	msg := updates[0].Message
	if msg == nil || msg.Text != "/weather Paris" || msg.Chat.ID != 100 {
		t.Errorf("unexpected update message %+v", msg)
	}
}

func TestSendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var payload struct {
			ChatID int64  `json:"chat_id"`
			Text   string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.ChatID != 55 || payload.Text != "hello" {
			t.Errorf("payload = %+v", payload)
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL)
	if err := client.SendMessage(context.Background(), 55, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	client := NewClient("bad-token", srv.URL)
	_, err := client.GetMe(context.Background())
	if err == nil {
		t.Fatal("GetMe with ok:false succeeded")
	}
	if !strings.Contains(err.Error(), "Unauthorized") {
		t.Errorf("error %q does not carry the api description", err)
	}
}
