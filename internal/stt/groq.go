package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// GroqClient transcribes audio via Groq's Whisper endpoint
// (POST {base}/audio/transcriptions, multipart file + model).
type GroqClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewGroqClient(baseURL, apiKey, model string) *GroqClient {
	return &GroqClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		// Whisper on a long call can take a while; the worker slot is
		// allowed to block on it.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (c *GroqClient) Transcribe(ctx context.Context, fileName string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("stt: empty audio")
	}

	var out transcriptionResponse
	op := func() error {
		body, contentType, err := c.multipartBody(fileName, audio)
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if resp.StatusCode >= 500 {
			return fmt.Errorf("stt: server error %d: %s", resp.StatusCode, respBody)
		}
		if resp.StatusCode != http.StatusOK {
			// 4xx will not get better on retry.
			return backoff.Permanent(fmt.Errorf("stt: unexpected status %d: %s", resp.StatusCode, respBody))
		}
		if err := json.Unmarshal(respBody, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("stt: decode response: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 3 * time.Minute
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *GroqClient) multipartBody(fileName string, audio []byte) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("model", c.model); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}
