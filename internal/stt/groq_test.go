package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGroqClient_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("missing auth header, got %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3" {
			t.Errorf("expected model field, got %q", got)
		}
		if _, hdr, err := r.FormFile("file"); err != nil || hdr.Filename != "call.mp3" {
			t.Errorf("expected file part call.mp3, got %v %v", hdr, err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Hi, this is Jane, jane@x.com"}`))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "whisper-large-v3")
	text, err := c.Transcribe(context.Background(), "call.mp3", []byte("audio"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if !strings.Contains(text, "Jane") {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestGroqClient_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "whisper-large-v3")
	text, err := c.Transcribe(context.Background(), "call.mp3", []byte("audio"))
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "ok" || calls < 2 {
		t.Fatalf("expected retry then success, got text=%q calls=%d", text, calls)
	}
}

func TestGroqClient_ClientErrorIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "bad", "whisper-large-v3")
	if _, err := c.Transcribe(context.Background(), "call.mp3", []byte("audio")); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}
