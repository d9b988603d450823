package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moegraph/internal/config"
)

func TestFetchNickname(t *testing.T) {
	// 模拟 Bangumi /v0/me
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       284901,
			"nickname": "小明",
		})
	}))
	defer server.Close()

	h := NewAuthHandler(&config.Config{})
	h.profileURL = server.URL
	h.client = &http.Client{Timeout: time.Second}

	nickname, err := h.fetchNickname("test-token")
	if err != nil {
		t.Fatalf("fetchNickname failed: %v", err)
	}
	if nickname != "小明" {
		t.Errorf("Expected 小明, got %s", nickname)
	}
}

func TestFetchNicknameUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	h := NewAuthHandler(&config.Config{})
	h.profileURL = server.URL

	if _, err := h.fetchNickname("bad-token"); err == nil {
		t.Error("expected error on non-200 response")
	}
}
