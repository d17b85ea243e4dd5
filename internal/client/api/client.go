package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/famboard/internal/models"
	"github.com/iudanet/famboard/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	tokens     TokenSource
	baseURL    string
}

// NewClient создает новый API клиент.
// timeout покрывает весь запрос, включая чтение тела ответа.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// DeltaSync submits pending changes and checkpoints in one batched request
func (c *Client) DeltaSync(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error) {
	var resp api.SyncResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/sync", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("delta sync request failed: %w", err)
	}
	return &resp, nil
}

// CreateEntity creates a single entity immediately
func (c *Client) CreateEntity(ctx context.Context, entityType models.EntityType, req api.EntityRequest) (*api.EntityResponse, error) {
	var resp api.EntityResponse
	path := "/api/v1/entities/" + string(entityType)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, req, &resp); err != nil {
		return nil, fmt.Errorf("create entity request failed: %w", err)
	}
	return &resp, nil
}

// GetEntity fetches the latest server state of a single entity
func (c *Client) GetEntity(ctx context.Context, entityType models.EntityType, id string) (*api.EntityResponse, error) {
	var resp api.EntityResponse
	path := fmt.Sprintf("/api/v1/entities/%s/%s", entityType, id)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("get entity request failed: %w", err)
	}
	return &resp, nil
}

// UpdateEntity updates a single entity under an If-Match version guard
func (c *Client) UpdateEntity(ctx context.Context, entityType models.EntityType, id string, version int64, data map[string]any) (*api.EntityResponse, error) {
	var resp api.EntityResponse
	path := fmt.Sprintf("/api/v1/entities/%s/%s", entityType, id)
	headers := http.Header{"If-Match": []string{strconv.FormatInt(version, 10)}}
	req := api.EntityRequest{EntityID: id, Data: data}

	if err := c.doRequest(ctx, http.MethodPut, path, headers, req, &resp); err != nil {
		return nil, fmt.Errorf("update entity request failed: %w", err)
	}
	return &resp, nil
}

// DeleteEntity deletes a single entity under an If-Match version guard
func (c *Client) DeleteEntity(ctx context.Context, entityType models.EntityType, id string, version int64) error {
	path := fmt.Sprintf("/api/v1/entities/%s/%s", entityType, id)
	headers := http.Header{"If-Match": []string{strconv.FormatInt(version, 10)}}

	if err := c.doRequest(ctx, http.MethodDelete, path, headers, nil, nil); err != nil {
		return fmt.Errorf("delete entity request failed: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос и раскладывает ответ по таксономии ошибок:
// сетевые сбои и 5xx -> ErrServerUnavailable, 409/412 -> *ConflictError,
// нечитаемое тело успешного ответа -> ErrMalformedResponse.
func (c *Client) doRequest(ctx context.Context, method, path string, headers http.Header, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Нет связи, таймаут или отмена контекста - всё одно для вызывающего
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %v", ErrServerUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: server answered %d", ErrServerUnavailable, resp.StatusCode)
	}

	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusPreconditionFailed {
		var conflictResp api.ConflictResponse
		if err := json.Unmarshal(respBody, &conflictResp); err != nil {
			return fmt.Errorf("%w: undecodable conflict body: %v", ErrMalformedResponse, err)
		}
		return &ConflictError{
			EntityID:      conflictResp.EntityID,
			ServerVersion: conflictResp.ServerVersion,
			ServerData:    conflictResp.ServerData,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	return nil
}
