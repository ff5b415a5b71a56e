package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func toolCallBody(args string) string {
	return fmt.Sprintf(`{
		"choices": [{
			"message": {
				"tool_calls": [{
					"function": {"name": "extract_client_info", "arguments": %q}
				}]
			}
		}]
	}`, args)
}

func TestGroqClient_ExtractParsesToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["tool_choice"] != "auto" {
			t.Errorf("expected tool_choice auto, got %v", req["tool_choice"])
		}
		if tools, ok := req["tools"].([]any); !ok || len(tools) != 1 {
			t.Errorf("expected exactly one tool, got %v", req["tools"])
		}
		_, _ = w.Write([]byte(toolCallBody(`{"client_name":"Jane","email":"jane@x.com","company_name":null}`)))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "llama-3.1-8b-instant")
	fields, raw, err := c.Extract(context.Background(), "Hi, this is Jane, jane@x.com")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields.ClientName == nil || *fields.ClientName != "Jane" {
		t.Fatalf("expected client_name Jane, got %+v", fields)
	}
	if fields.Email == nil || *fields.Email != "jane@x.com" {
		t.Fatalf("expected email, got %+v", fields)
	}
	if fields.CompanyName != nil || fields.ContactNumber != nil || fields.ServiceInterest != nil {
		t.Fatalf("null/absent args must stay nil, got %+v", fields)
	}
	if len(raw) == 0 {
		t.Fatalf("raw response must be returned for audit")
	}
}

func TestGroqClient_NoToolCallMeansEmptyFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"no structured data"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "llama-3.1-8b-instant")
	fields, _, err := c.Extract(context.Background(), "hello")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !fields.Empty() {
		t.Fatalf("expected empty fields, got %+v", fields)
	}
}

func TestGroqClient_MalformedArgumentsDegradeToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(toolCallBody(`not json at all`)))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "llama-3.1-8b-instant")
	fields, _, err := c.Extract(context.Background(), "hello")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !fields.Empty() {
		t.Fatalf("expected empty fields, got %+v", fields)
	}
}

func TestGroqClient_WhitespaceValuesAreDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(toolCallBody(`{"client_name":"  ","email":"jane@x.com"}`)))
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "llama-3.1-8b-instant")
	fields, _, err := c.Extract(context.Background(), "hello")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if fields.ClientName != nil {
		t.Fatalf("whitespace-only value must be dropped, got %q", *fields.ClientName)
	}
	if fields.Email == nil {
		t.Fatalf("expected email kept")
	}
}

func TestGroqClient_ServiceErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewGroqClient(srv.URL, "key", "llama-3.1-8b-instant")
	if _, _, err := c.Extract(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error")
	}
}
