package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/wild-trails/internal/handlers"
	"github.com/jwebster45206/wild-trails/internal/services"
	"github.com/jwebster45206/wild-trails/pkg/game"
)

// apiClient talks to the game API on behalf of the console.
type apiClient struct {
	client  *http.Client
	baseURL string
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends body as JSON (when non-nil) and decodes a response with the
// expected status into out.
func (a *apiClient) do(method, path string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return errors.New(errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func sessionPath(id uuid.UUID, action string) string {
	if action == "" {
		return "/v1/sessions/" + id.String()
	}
	return "/v1/sessions/" + id.String() + "/" + action
}

func (a *apiClient) createSession() (*game.Status, error) {
	var status game.Status
	if err := a.do(http.MethodPost, "/v1/sessions", nil, http.StatusCreated, &status); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &status, nil
}

func (a *apiClient) getStatus(id uuid.UUID) (*game.Status, error) {
	var status game.Status
	if err := a.do(http.MethodGet, sessionPath(id, ""), nil, http.StatusOK, &status); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &status, nil
}

func (a *apiClient) getEvent(id uuid.UUID) (*handlers.EventResponse, error) {
	var resp handlers.EventResponse
	if err := a.do(http.MethodGet, sessionPath(id, "event"), nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &resp, nil
}

func (a *apiClient) choose(id uuid.UUID, choice int) (*handlers.ChoiceResponse, error) {
	var resp handlers.ChoiceResponse
	req := handlers.ChoiceRequest{Choice: &choice}
	if err := a.do(http.MethodPost, sessionPath(id, "choice"), req, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("choice failed: %w", err)
	}
	return &resp, nil
}

func (a *apiClient) reset(id uuid.UUID) (*handlers.EventResponse, error) {
	var resp handlers.EventResponse
	if err := a.do(http.MethodPost, sessionPath(id, "reset"), nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("reset failed: %w", err)
	}
	return &resp, nil
}

func (a *apiClient) collection(id uuid.UUID) ([]handlers.CollectibleView, error) {
	var items []handlers.CollectibleView
	if err := a.do(http.MethodGet, sessionPath(id, "collection"), nil, http.StatusOK, &items); err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return items, nil
}

func (a *apiClient) review(id uuid.UUID) (*services.ReviewResponse, error) {
	var resp services.ReviewResponse
	if err := a.do(http.MethodPost, sessionPath(id, "review"), nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("review failed: %w", err)
	}
	return &resp, nil
}
