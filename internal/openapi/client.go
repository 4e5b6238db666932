package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
	"github.com/avandorp/ticktick-mcp/internal/logging"
)

// DefaultBaseURL is the production endpoint of the documented Open API.
const DefaultBaseURL = "https://api.ticktick.com/open/v1"

// BackendName identifies this adapter in error classifications and logs.
const BackendName = "openapi"

// maxErrorBody caps how much of an error response body is read for the
// error message.
const maxErrorBody = 4 << 10

// Client speaks the documented Open API with bearer-token authentication.
// The token is fixed for the client's lifetime; there is no automatic
// refresh. On expiry the backend answers 401 and the caller must re-run the
// out-of-band authorization flow.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request debug logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates an Open API client for the given access token. The
// timeout applies uniformly to every request.
func NewClient(ctx context.Context, accessToken string, timeout time.Duration, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, apierr.Configf("openapi.NewClient", "access token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = timeout

	c := &Client{
		httpClient: hc,
		baseURL:    DefaultBaseURL,
		logger:     logging.WithBackend(slog.Default(), BackendName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Verify issues a cheap read to confirm the token is accepted. Used at
// session-open time so an expired token fails fast instead of mid-operation.
func (c *Client) Verify(ctx context.Context) error {
	var projects []Project
	return c.do(ctx, "verify", http.MethodGet, "/project", nil, &projects)
}

// GetProjects lists all projects visible to the token. The inbox project is
// not included; only the session backend knows the inbox id.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, "getProjects", http.MethodGet, "/project", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves a single project by id.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	var p Project
	if err := c.do(ctx, "getProject", http.MethodGet, "/project/"+projectID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProjectData retrieves a project together with its undone tasks and
// kanban columns.
func (c *Client) GetProjectData(ctx context.Context, projectID string) (*ProjectData, error) {
	var data ProjectData
	if err := c.do(ctx, "getProjectData", http.MethodGet, "/project/"+projectID+"/data", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// CreateProject creates a project and returns the created record.
func (c *Client) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	var created Project
	if err := c.do(ctx, "createProject", http.MethodPost, "/project", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProject updates a project and returns the updated record.
func (c *Client) UpdateProject(ctx context.Context, p *Project) (*Project, error) {
	if p.ID == "" {
		return nil, apierr.Validationf("updateProject", "project id is required")
	}
	var updated Project
	if err := c.do(ctx, "updateProject", http.MethodPost, "/project/"+p.ID, p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProject deletes a project. The backend rejects deleting the inbox.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, "deleteProject", http.MethodDelete, "/project/"+projectID, nil, nil)
}

// GetTask retrieves a task by project and task id.
func (c *Client) GetTask(ctx context.Context, projectID, taskID string) (*Task, error) {
	var t Task
	path := fmt.Sprintf("/project/%s/task/%s", projectID, taskID)
	if err := c.do(ctx, "getTask", http.MethodGet, path, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask creates a task and returns the created record. The backend
// ignores any parent id supplied here; subtask linkage is a separate
// operation on the session backend.
func (c *Client) CreateTask(ctx context.Context, t *Task) (*Task, error) {
	var created Task
	if err := c.do(ctx, "createTask", http.MethodPost, "/task", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask updates a task and returns the updated record.
func (c *Client) UpdateTask(ctx context.Context, t *Task) (*Task, error) {
	if t.ID == "" {
		return nil, apierr.Validationf("updateTask", "task id is required")
	}
	var updated Task
	if err := c.do(ctx, "updateTask", http.MethodPost, "/task/"+t.ID, t, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID string) error {
	path := fmt.Sprintf("/project/%s/task/%s/complete", projectID, taskID)
	return c.do(ctx, "completeTask", http.MethodPost, path, nil, nil)
}

// DeleteTask deletes a task. Server-side this is a move to trash; the task
// stays retrievable through the session backend's trash listing.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	path := fmt.Sprintf("/project/%s/task/%s", projectID, taskID)
	return c.do(ctx, "deleteTask", http.MethodDelete, path, nil, nil)
}

// do performs one request/response exchange and maps failures onto the
// shared error taxonomy.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apierr.Newf(apierr.KindValidation, BackendName, op, "encode request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apierr.Newf(apierr.KindValidation, BackendName, op, "build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Newf(apierr.KindServer, BackendName, op, "transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := readErrorMessage(resp.Body)
		c.logger.Debug("request failed",
			logging.Operation(op),
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return apierr.FromStatus(BackendName, op, resp.StatusCode, msg)
	}

	c.logger.Debug("request complete",
		logging.Operation(op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Newf(apierr.KindServer, BackendName, op, "read response: %v", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apierr.Newf(apierr.KindServer, BackendName, op, "decode response: %v", err)
	}
	return nil
}

// readErrorMessage extracts the backend's error message from a failed
// response body, falling back to the truncated raw body.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var ae apiError
	if err := json.Unmarshal(data, &ae); err == nil && ae.ErrorMessage != "" {
		if ae.ErrorCode != "" {
			return fmt.Sprintf("%s: %s", ae.ErrorCode, ae.ErrorMessage)
		}
		return ae.ErrorMessage
	}
	return strings.TrimSpace(string(data))
}
