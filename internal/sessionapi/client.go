package sessionapi

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
	"github.com/avandorp/ticktick-mcp/internal/logging"
)

// DefaultBaseURL is the production endpoint of the session API.
const DefaultBaseURL = "https://api.ticktick.com/api/v2"

// BackendName identifies this adapter in error classifications and logs.
const BackendName = "session"

// maxErrorBody caps how much of an error response body is read for the
// error message.
const maxErrorBody = 4 << 10

// trashPageSize is the page size used when walking the trash listing.
const trashPageSize = 500

// Client speaks the undocumented session API. Authentication is a
// username/password signon that yields a session token bound to a device id;
// the token is sent both as a bearer header and as the `t` cookie, matching
// what the web client does.
//
// The client is not safe for concurrent use during Login; after a successful
// Login the token and inbox id are read-only and concurrent request methods
// are fine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger

	username string
	password string
	deviceID string
	token    string
	inboxID  string
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

// NewClient creates a session API client. The client holds no session until
// Login succeeds. The timeout applies uniformly to every request.
func NewClient(username, password, deviceID string, timeout time.Duration, opts ...Option) (*Client, error) {
	if username == "" || password == "" {
		return nil, apierr.Configf("sessionapi.NewClient", "username and password are required")
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		logger:     logging.WithBackend(slog.Default(), BackendName),
		username:   username,
		password:   password,
		deviceID:   deviceID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewObjectID returns a fresh 24-character hex object id of the form the
// session API expects for client-assigned ids (folders created via batch
// endpoints need one).
func NewObjectID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:12])
}

// LoggedIn reports whether a signon has succeeded on this client.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// InboxID returns the inbox project id learned at signon, empty before Login.
func (c *Client) InboxID() string {
	return c.inboxID
}

// Login performs the username/password signon and stores the session token.
// Accounts with two-factor authentication enabled cannot complete a signon
// here; those fail with an authentication error wrapping
// apierr.ErrTwoFactorRequired.
func (c *Client) Login(ctx context.Context) error {
	const op = "login"

	payload, err := json.Marshal(signonRequest{Username: c.username, Password: c.password})
	if err != nil {
		return apierr.Newf(apierr.KindValidation, BackendName, op, "encode request: %v", err)
	}

	u := c.baseURL + "/user/signon?wc=true&remember=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return apierr.Newf(apierr.KindValidation, BackendName, op, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device", c.deviceHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Newf(apierr.KindServer, BackendName, op, "transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if isTwoFactorBody(data) {
			return apierr.New(apierr.KindAuth, BackendName, op,
				fmt.Errorf("signon rejected: %w", apierr.ErrTwoFactorRequired))
		}
		msg := errorMessage(data)
		// Any signon rejection is an authentication failure regardless of
		// which 4xx the backend picked.
		if resp.StatusCode < 500 {
			return apierr.Newf(apierr.KindAuth, BackendName, op, "signon rejected: %s", msg)
		}
		return apierr.FromStatus(BackendName, op, resp.StatusCode, msg)
	}

	var signon SignonResponse
	if err := json.NewDecoder(resp.Body).Decode(&signon); err != nil {
		return apierr.Newf(apierr.KindServer, BackendName, op, "decode response: %v", err)
	}
	if signon.Token == "" {
		return apierr.Newf(apierr.KindAuth, BackendName, op, "signon response carried no token")
	}

	c.token = signon.Token
	c.inboxID = signon.InboxID
	c.logger.Info("session established",
		logging.Operation(op),
		slog.String(logging.KeyUserHash, logging.AnonymizeUser(signon.Username)))
	return nil
}

// Logout invalidates the session server-side on a best-effort basis and
// always clears the local token. Calling it without a session is a no-op.
func (c *Client) Logout(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	err := c.do(ctx, "logout", http.MethodPost, "/user/signout", nil, nil)
	c.token = ""
	c.inboxID = ""
	if err != nil {
		c.logger.Debug("signout failed, session dropped locally", logging.Err(err))
	}
	return nil
}

// Sync fetches the full account snapshot: every project, folder, tag and
// live task, plus the inbox id. The client's own inbox id is fixed at signon
// and is not refreshed here; the snapshot's copy is returned untouched.
func (c *Client) Sync(ctx context.Context) (*SyncResponse, error) {
	var out SyncResponse
	if err := c.do(ctx, "sync", http.MethodGet, "/batch/check/0", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FullSync fetches the same snapshot as Sync but returns the raw JSON
// document untouched, for callers that want fields the typed model drops.
func (c *Client) FullSync(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "fullSync", http.MethodGet, "/batch/check/0", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CreateTag creates a tag via the batch tag endpoint.
func (c *Client) CreateTag(ctx context.Context, tag Tag) error {
	var out BatchResponse
	if err := c.do(ctx, "createTag", http.MethodPost, "/batch/tag", batchTagRequest{Add: []Tag{tag}}, &out); err != nil {
		return err
	}
	return batchError("createTag", out)
}

// UpdateTag updates tag attributes (color, parent) via the batch tag
// endpoint. The name cannot change this way; use RenameTag.
func (c *Client) UpdateTag(ctx context.Context, tag Tag) error {
	var out BatchResponse
	if err := c.do(ctx, "updateTag", http.MethodPost, "/batch/tag", batchTagRequest{Update: []Tag{tag}}, &out); err != nil {
		return err
	}
	return batchError("updateTag", out)
}

// DeleteTag deletes a tag by name. Tasks keep working; the backend strips
// the tag from them.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	return c.do(ctx, "deleteTag", http.MethodDelete, "/tag?name="+url.QueryEscape(name), nil, nil)
}

// RenameTag renames a tag across the account.
func (c *Client) RenameTag(ctx context.Context, oldName, newName string) error {
	return c.do(ctx, "renameTag", http.MethodPut, "/tag/rename", tagRename{Name: oldName, NewName: newName}, nil)
}

// MergeTag merges the source tag into the target tag; the source tag is
// removed and its tasks carry the target afterwards.
func (c *Client) MergeTag(ctx context.Context, source, target string) error {
	return c.do(ctx, "mergeTag", http.MethodPut, "/tag/merge", tagRename{Name: source, NewName: target}, nil)
}

// CreateFolder creates a project group. The id must be client-assigned; use
// NewObjectID.
func (c *Client) CreateFolder(ctx context.Context, g ProjectGroup) error {
	var out BatchResponse
	if err := c.do(ctx, "createFolder", http.MethodPost, "/batch/projectGroup", batchGroupRequest{Add: []ProjectGroup{g}}, &out); err != nil {
		return err
	}
	return batchError("createFolder", out)
}

// UpdateFolder updates a project group.
func (c *Client) UpdateFolder(ctx context.Context, g ProjectGroup) error {
	var out BatchResponse
	if err := c.do(ctx, "updateFolder", http.MethodPost, "/batch/projectGroup", batchGroupRequest{Update: []ProjectGroup{g}}, &out); err != nil {
		return err
	}
	return batchError("updateFolder", out)
}

// DeleteFolder deletes a project group. Projects inside it survive and
// become ungrouped.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	var out BatchResponse
	if err := c.do(ctx, "deleteFolder", http.MethodPost, "/batch/projectGroup", batchGroupRequest{Delete: []string{folderID}}, &out); err != nil {
		return err
	}
	return batchError("deleteFolder", out)
}

// MoveTask moves a task between projects.
func (c *Client) MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) error {
	body := []taskProjectMove{{FromProjectID: fromProjectID, ToProjectID: toProjectID, TaskID: taskID}}
	var out BatchResponse
	if err := c.do(ctx, "moveTask", http.MethodPost, "/batch/taskProject", body, &out); err != nil {
		return err
	}
	return batchError("moveTask", out)
}

// SetTaskParent makes taskID a subtask of parentID. Both tasks must live in
// projectID.
func (c *Client) SetTaskParent(ctx context.Context, taskID, parentID, projectID string) error {
	body := []taskParentSet{{TaskID: taskID, ParentID: parentID, ProjectID: projectID}}
	var out BatchResponse
	if err := c.do(ctx, "setTaskParent", http.MethodPost, "/batch/taskParent", body, &out); err != nil {
		return err
	}
	return batchError("setTaskParent", out)
}

// UnsetTaskParent detaches taskID from its current parent.
func (c *Client) UnsetTaskParent(ctx context.Context, taskID, oldParentID, projectID string) error {
	body := []taskParentUnset{{TaskID: taskID, OldParentID: oldParentID, ProjectID: projectID}}
	var out BatchResponse
	if err := c.do(ctx, "unsetTaskParent", http.MethodPost, "/batch/taskParent", body, &out); err != nil {
		return err
	}
	return batchError("unsetTaskParent", out)
}

// GetProfile fetches the account profile.
func (c *Client) GetProfile(ctx context.Context) (*UserProfile, error) {
	var out UserProfile
	if err := c.do(ctx, "getProfile", http.MethodGet, "/user/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStatus fetches the account status including the inbox project id. The
// client's own inbox id stays as learned at signon.
func (c *Client) GetStatus(ctx context.Context) (*UserStatus, error) {
	var out UserStatus
	if err := c.do(ctx, "getStatus", http.MethodGet, "/user/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStatistics fetches the productivity counters.
func (c *Client) GetStatistics(ctx context.Context) (*Statistics, error) {
	var out Statistics
	if err := c.do(ctx, "getStatistics", http.MethodGet, "/statistics/general", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFocusSummary fetches the pomodoro/focus counters.
func (c *Client) GetFocusSummary(ctx context.Context) (*FocusSummary, error) {
	var out FocusSummary
	if err := c.do(ctx, "getFocusSummary", http.MethodGet, "/pomodoros/statistics/generalForDesktop", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTrash walks the paginated trash listing and returns every soft-deleted
// task.
func (c *Client) ListTrash(ctx context.Context) ([]Task, error) {
	var all []Task
	start := int64(0)
	for {
		path := fmt.Sprintf("/project/all/trash/pagination?start=%d&limit=%d", start, trashPageSize)
		var page TrashPage
		if err := c.do(ctx, "listTrash", http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Tasks...)
		if page.Next == 0 || len(page.Tasks) == 0 {
			return all, nil
		}
		start = page.Next
	}
}

// ListCompleted returns completed tasks across all projects in the given
// closed time window, newest first, capped at limit.
func (c *Client) ListCompleted(ctx context.Context, from, to time.Time, limit int) ([]Task, error) {
	const layout = "2006-01-02 15:04:05"
	q := url.Values{}
	q.Set("from", from.UTC().Format(layout))
	q.Set("to", to.UTC().Format(layout))
	q.Set("limit", fmt.Sprintf("%d", limit))
	var out []Task
	if err := c.do(ctx, "listCompleted", http.MethodGet, "/project/all/completedInAll/?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// deviceHeader builds the X-Device JSON blob the backend requires on signon
// and on authenticated requests. The device id ties the issued token to this
// client installation.
func (c *Client) deviceHeader() string {
	blob, _ := json.Marshal(map[string]any{
		"platform": "web",
		"os":       "linux",
		"device":   "ticktick-mcp",
		"name":     "ticktick-mcp",
		"version":  6070,
		"id":       c.deviceID,
		"channel":  "website",
		"campaign": "",
	})
	return string(blob)
}

// do performs one authenticated request/response exchange and maps failures
// onto the shared error taxonomy.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if c.token == "" {
		return apierr.Newf(apierr.KindAuth, BackendName, op, "no session, call Login first")
	}

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
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Device", c.deviceHeader())
	req.AddCookie(&http.Cookie{Name: "t", Value: c.token})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Newf(apierr.KindServer, BackendName, op, "transport: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("request failed",
			logging.Operation(op),
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return apierr.FromStatus(BackendName, op, resp.StatusCode, errorMessage(data))
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

// batchError surfaces per-id failures hidden inside a 200 batch response.
func batchError(op string, resp BatchResponse) error {
	for id, code := range resp.ID2Error {
		kind := apierr.KindServer
		switch code {
		case "NOT_EXISTED", "DELETED":
			kind = apierr.KindNotFound
		case "EXISTED", "DUPLICATED":
			kind = apierr.KindValidation
		}
		return apierr.Newf(kind, BackendName, op, "batch item %s: %s", id, code)
	}
	return nil
}

// isTwoFactorBody reports whether a failed signon body indicates a
// two-factor challenge instead of bad credentials.
func isTwoFactorBody(data []byte) bool {
	var ae apiError
	if err := json.Unmarshal(data, &ae); err == nil {
		code := strings.ToLower(ae.ErrorCode)
		if strings.Contains(code, "2fa") || strings.Contains(code, "two_factor") || strings.Contains(code, "verification") {
			return true
		}
	}
	lower := strings.ToLower(string(data))
	return strings.Contains(lower, "two-factor") || strings.Contains(lower, "two factor") || strings.Contains(lower, "2fa")
}

// errorMessage extracts the backend's error message from a failed response
// body, falling back to the truncated raw body.
func errorMessage(data []byte) string {
	if len(data) == 0 {
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
