package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"callintake-platform/internal/extraction"

	"github.com/cenkalti/backoff/v4"
)

const toolName = "extract_client_info"

const systemInstruction = "You are an expert assistant that extracts structured client information " +
	"from call transcripts: the client's name, company, contact details (phone, email) and their " +
	"primary service interest. Use the `" + toolName + "` tool to report what you find. " +
	"IMPORTANT: if a piece of information is not explicitly mentioned, omit that parameter entirely. " +
	"DO NOT use placeholder values like 'N/A', 'None' or 'null'. " +
	"Only return values that are directly stated or strongly implied in the transcript."

// GroqClient extracts client info via Groq's chat-completions endpoint
// using a single function tool with nullable string parameters.
type GroqClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGroqClient(baseURL, apiKey, model string) *GroqClient {
	return &GroqClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []toolDef     `json:"tools"`
	ToolChoice string        `json:"tool_choice"`
	MaxTokens  int           `json:"max_tokens"`
}

type toolDef struct {
	Type     string      `json:"type"`
	Function functionDef `json:"function"`
}

type functionDef struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  toolParameters `json:"parameters"`
}

type toolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]toolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

type toolProperty struct {
	Type        []string `json:"type"`
	Description string   `json:"description"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

func extractTool() toolDef {
	nullable := func(desc string) toolProperty {
		return toolProperty{Type: []string{"string", "null"}, Description: desc}
	}
	return toolDef{
		Type: "function",
		Function: functionDef{
			Name: toolName,
			Description: "Reports key client information found in a call transcript. " +
				"Parameters for information that is not present must be omitted or null.",
			Parameters: toolParameters{
				Type: "object",
				Properties: map[string]toolProperty{
					"client_name":      nullable("The full name of the potential client."),
					"company_name":     nullable("The company name of the potential client."),
					"contact_number":   nullable("The primary contact phone number of the client."),
					"email":            nullable("The primary email address of the client."),
					"service_interest": nullable("A brief description of the services the client is interested in."),
				},
				Required: []string{},
			},
		},
	}
}

func (c *GroqClient) Extract(ctx context.Context, transcript string) (extraction.Fields, json.RawMessage, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: fmt.Sprintf(
				"Here is the call transcript: %q\n\nExtract the relevant client information and call the `%s` tool.",
				transcript, toolName)},
		},
		Tools:      []toolDef{extractTool()},
		ToolChoice: "auto",
		MaxTokens:  4096,
	})
	if err != nil {
		return extraction.Fields{}, nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	var raw []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if resp.StatusCode >= 500 {
			return fmt.Errorf("llm: server error %d: %s", resp.StatusCode, body)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("llm: unexpected status %d: %s", resp.StatusCode, body))
		}
		raw = body
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return extraction.Fields{}, nil, err
	}

	return parseToolCall(raw), raw, nil
}

// parseToolCall pulls the first matching tool invocation out of the
// response. Anything malformed degrades to empty Fields: the pipeline
// treats "nothing extracted" as a reviewable outcome, not a failure.
func parseToolCall(raw []byte) extraction.Fields {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil || len(resp.Choices) == 0 {
		return extraction.Fields{}
	}

	for _, tc := range resp.Choices[0].Message.ToolCalls {
		if tc.Function.Name != toolName {
			continue
		}
		var args struct {
			ClientName      *string `json:"client_name"`
			CompanyName     *string `json:"company_name"`
			ContactNumber   *string `json:"contact_number"`
			Email           *string `json:"email"`
			ServiceInterest *string `json:"service_interest"`
		}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return extraction.Fields{}
		}
		return extraction.Fields{
			ClientName:      presentOnly(args.ClientName),
			CompanyName:     presentOnly(args.CompanyName),
			ContactNumber:   presentOnly(args.ContactNumber),
			Email:           presentOnly(args.Email),
			ServiceInterest: presentOnly(args.ServiceInterest),
		}
	}
	return extraction.Fields{}
}

// presentOnly drops nulls and whitespace-only values so they are never
// stored as empty strings.
func presentOnly(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
