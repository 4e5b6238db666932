package ticktick

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
	"github.com/avandorp/ticktick-mcp/internal/config"
	"github.com/avandorp/ticktick-mcp/internal/logging"
	"github.com/avandorp/ticktick-mcp/internal/openapi"
	"github.com/avandorp/ticktick-mcp/internal/sessionapi"
)

// OpenBackend is the slice of the Open API adapter the facade consumes.
// *openapi.Client satisfies it; tests substitute fakes.
type OpenBackend interface {
	Verify(ctx context.Context) error
	GetProjects(ctx context.Context) ([]openapi.Project, error)
	GetProject(ctx context.Context, projectID string) (*openapi.Project, error)
	GetProjectData(ctx context.Context, projectID string) (*openapi.ProjectData, error)
	CreateProject(ctx context.Context, p *openapi.Project) (*openapi.Project, error)
	UpdateProject(ctx context.Context, p *openapi.Project) (*openapi.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	GetTask(ctx context.Context, projectID, taskID string) (*openapi.Task, error)
	CreateTask(ctx context.Context, t *openapi.Task) (*openapi.Task, error)
	UpdateTask(ctx context.Context, t *openapi.Task) (*openapi.Task, error)
	CompleteTask(ctx context.Context, projectID, taskID string) error
	DeleteTask(ctx context.Context, projectID, taskID string) error
}

// SessionBackend is the slice of the session API adapter the facade
// consumes. *sessionapi.Client satisfies it; tests substitute fakes.
type SessionBackend interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	InboxID() string
	Sync(ctx context.Context) (*sessionapi.SyncResponse, error)
	FullSync(ctx context.Context) (json.RawMessage, error)
	CreateTag(ctx context.Context, tag sessionapi.Tag) error
	UpdateTag(ctx context.Context, tag sessionapi.Tag) error
	DeleteTag(ctx context.Context, name string) error
	RenameTag(ctx context.Context, oldName, newName string) error
	MergeTag(ctx context.Context, source, target string) error
	CreateFolder(ctx context.Context, g sessionapi.ProjectGroup) error
	UpdateFolder(ctx context.Context, g sessionapi.ProjectGroup) error
	DeleteFolder(ctx context.Context, folderID string) error
	MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) error
	SetTaskParent(ctx context.Context, taskID, parentID, projectID string) error
	UnsetTaskParent(ctx context.Context, taskID, oldParentID, projectID string) error
	GetProfile(ctx context.Context) (*sessionapi.UserProfile, error)
	GetStatus(ctx context.Context) (*sessionapi.UserStatus, error)
	GetStatistics(ctx context.Context) (*sessionapi.Statistics, error)
	GetFocusSummary(ctx context.Context) (*sessionapi.FocusSummary, error)
	ListTrash(ctx context.Context) ([]sessionapi.Task, error)
	ListCompleted(ctx context.Context, from, to time.Time, limit int) ([]sessionapi.Task, error)
}

// Client is the unified TickTick client. One facade method per operation;
// each is served by the backend(s) named in operationRoutes. Safe for
// concurrent use once Open returns.
type Client struct {
	open    OpenBackend
	session SessionBackend
	logger  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// ProjectWithTasks pairs a project with its undone tasks.
type ProjectWithTasks struct {
	Project *Project
	Tasks   []*Task
}

// Open validates the settings, authenticates both backends and returns a
// ready client. Either backend failing to authenticate fails the whole open;
// there is no degraded single-backend mode.
func Open(ctx context.Context, cfg *config.Settings) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	open, err := openapi.NewClient(ctx, cfg.AccessToken, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	session, err := sessionapi.NewClient(cfg.Username, cfg.Password, cfg.DeviceID, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	if err := session.Login(ctx); err != nil {
		return nil, err
	}
	if err := open.Verify(ctx); err != nil {
		_ = session.Logout(ctx)
		return nil, err
	}

	return NewClient(open, session), nil
}

// NewClient assembles a facade over already-authenticated backends. Open is
// the usual entry point; NewClient exists for tests and embedders that
// manage authentication themselves.
func NewClient(open OpenBackend, session SessionBackend) *Client {
	return &Client{
		open:    open,
		session: session,
		logger:  slog.Default().With(slog.String("component", "ticktick")),
	}
}

// Close releases the session backend's server-side session. Safe to call
// multiple times; only the first call does work.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.closeErr = c.session.Logout(ctx)
	})
	return c.closeErr
}

// --- Task operations ---

// CreateTask creates a task on the Open API. Any ParentID on the input is
// dropped before the call because the backend silently ignores it; subtask
// linkage goes through MakeSubtask.
func (c *Client) CreateTask(ctx context.Context, t *Task) (*Task, error) {
	const op = "createTask"
	if err := validateTaskForWrite(op, t); err != nil {
		return nil, err
	}

	in := *t
	in.ParentID = ""
	in.ID = ""

	created, err := c.open.CreateTask(ctx, taskToOpenAPI(&in))
	if err != nil {
		return nil, err
	}
	out, err := taskFromOpenAPI(created)
	if err != nil {
		return nil, err
	}
	c.logger.Info("task created", logging.Operation(op), slog.String("task_id", out.ID))
	return out, nil
}

// GetTask fetches a task by id. A task missing from the Open API is looked
// up in the session trash before reporting not found, so soft-deleted tasks
// stay fetchable with the Deleted flag set.
func (c *Client) GetTask(ctx context.Context, projectID, taskID string) (*Task, error) {
	raw, err := c.open.GetTask(ctx, projectID, taskID)
	if err == nil {
		return taskFromOpenAPI(raw)
	}
	if !errors.Is(err, apierr.ErrNotFound) {
		return nil, err
	}

	trashed, trashErr := c.session.ListTrash(ctx)
	if trashErr != nil {
		// The original not-found is the more useful answer.
		return nil, err
	}
	for i := range trashed {
		if trashed[i].ID == taskID {
			t, convErr := taskFromSession(&trashed[i])
			if convErr != nil {
				return nil, convErr
			}
			// Presence in the trash is what makes the task deleted; the
			// trash payload does not reliably carry the flag itself.
			t.Deleted = true
			return t, nil
		}
	}
	return nil, err
}

// UpdateTask replaces a task's mutable fields on the Open API. Clearing the
// due date also clears the start date in the same call; leaving the start
// date behind makes the backend resurrect the due date from it.
func (c *Client) UpdateTask(ctx context.Context, t *Task) (*Task, error) {
	const op = "updateTask"
	if t.ID == "" {
		return nil, apierr.Validationf(op, "task id is required")
	}
	if err := validateTaskForWrite(op, t); err != nil {
		return nil, err
	}

	in := *t
	if in.DueDate == nil {
		in.StartDate = nil
	}

	updated, err := c.open.UpdateTask(ctx, taskToOpenAPI(&in))
	if err != nil {
		return nil, err
	}
	return taskFromOpenAPI(updated)
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, projectID, taskID string) error {
	return c.open.CompleteTask(ctx, projectID, taskID)
}

// DeleteTask soft-deletes a task. It remains fetchable via GetTask (with the
// Deleted flag) until the backend purges its trash.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	return c.open.DeleteTask(ctx, projectID, taskID)
}

// MoveTask moves a task to another project.
func (c *Client) MoveTask(ctx context.Context, taskID, fromProjectID, toProjectID string) error {
	return c.session.MoveTask(ctx, taskID, fromProjectID, toProjectID)
}

// MakeSubtask turns child into a subtask of the task with parentID. Two
// phases: the child is created on the Open API when it has no id yet (phase
// 1), then linked on the session API (phase 2). A phase 2 failure returns a
// *apierr.PhaseError and leaves the created child behind as an ordinary
// task; it is not rolled back.
func (c *Client) MakeSubtask(ctx context.Context, child *Task, parentID string) (*Task, error) {
	const op = "makeSubtask"
	if parentID == "" {
		return nil, apierr.Validationf(op, "parent task id is required")
	}

	created := child
	if child.ID == "" {
		var err error
		created, err = c.CreateTask(ctx, child)
		if err != nil {
			return nil, &apierr.PhaseError{Op: op, Phase: apierr.PhaseCreate, Err: err}
		}
	}

	if err := c.session.SetTaskParent(ctx, created.ID, parentID, created.ProjectID); err != nil {
		return created, &apierr.PhaseError{Op: op, Phase: apierr.PhaseLink, Err: err}
	}

	linked := *created
	linked.ParentID = parentID
	return &linked, nil
}

// ListAllTasks returns every live task across every project. Open API
// project data provides the authoritative records; the session snapshot
// contributes the fields the Open API cannot express (tags, parent linkage).
// Tasks visible to only one backend are kept with the other backend's fields
// unset. Ordering is by project then backend sort order.
func (c *Client) ListAllTasks(ctx context.Context) ([]*Task, error) {
	snapshot, err := c.session.Sync(ctx)
	if err != nil {
		return nil, err
	}

	sessionByID := make(map[string]*Task, len(snapshot.SyncTaskBean.Update))
	for i := range snapshot.SyncTaskBean.Update {
		st, err := taskFromSession(&snapshot.SyncTaskBean.Update[i])
		if err != nil {
			return nil, err
		}
		sessionByID[st.ID] = st
	}

	projects, err := c.open.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	projectIDs := make([]string, 0, len(projects)+1)
	if inbox := c.session.InboxID(); inbox != "" {
		projectIDs = append(projectIDs, inbox)
	}
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	var all []*Task
	seen := make(map[string]struct{})
	for _, pid := range projectIDs {
		data, err := c.open.GetProjectData(ctx, pid)
		if err != nil {
			if errors.Is(err, apierr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for i := range data.Tasks {
			t, err := taskFromOpenAPI(&data.Tasks[i])
			if err != nil {
				return nil, err
			}
			if st, ok := sessionByID[t.ID]; ok {
				mergeSessionOnly(t, st)
			}
			seen[t.ID] = struct{}{}
			all = append(all, t)
		}
	}

	// Session-only leftovers (e.g. tasks in projects the token cannot see).
	var extra []*Task
	for id, st := range sessionByID {
		if _, ok := seen[id]; !ok {
			extra = append(extra, st)
		}
	}
	sort.Slice(extra, func(i, j int) bool {
		if extra[i].ProjectID != extra[j].ProjectID {
			return extra[i].ProjectID < extra[j].ProjectID
		}
		return extra[i].SortOrder < extra[j].SortOrder
	})
	return append(all, extra...), nil
}

// SearchTasks filters ListAllTasks by case-insensitive substring match over
// title and content. Purely local; the backends expose no search endpoint.
func (c *Client) SearchTasks(ctx context.Context, query string) ([]*Task, error) {
	if query == "" {
		return nil, apierr.Validationf("searchTasks", "query is required")
	}
	all, err := c.ListAllTasks(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var hits []*Task
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Content), needle) {
			hits = append(hits, t)
		}
	}
	return hits, nil
}

// GetTasksByTag returns every live task carrying the named tag. The session
// snapshot is the tag source; tasks also visible on the Open API are
// re-fetched there so the returned records are authoritative.
func (c *Client) GetTasksByTag(ctx context.Context, tag string) ([]*Task, error) {
	if tag == "" {
		return nil, apierr.Validationf("getTasksByTag", "tag name is required")
	}
	snapshot, err := c.session.Sync(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Task
	for i := range snapshot.SyncTaskBean.Update {
		st, err := taskFromSession(&snapshot.SyncTaskBean.Update[i])
		if err != nil {
			return nil, err
		}
		if !st.HasTag(tag) {
			continue
		}
		raw, err := c.open.GetTask(ctx, st.ProjectID, st.ID)
		if err == nil {
			t, err := taskFromOpenAPI(raw)
			if err != nil {
				return nil, err
			}
			mergeSessionOnly(t, st)
			out = append(out, t)
			continue
		}
		if !errors.Is(err, apierr.ErrNotFound) {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// ListCompleted returns tasks completed in the given window, newest first.
func (c *Client) ListCompleted(ctx context.Context, from, to time.Time, limit int) ([]*Task, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := c.session.ListCompleted(ctx, from, to, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*Task, 0, len(raw))
	for i := range raw {
		t, err := taskFromSession(&raw[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ListTrash returns every soft-deleted task.
func (c *Client) ListTrash(ctx context.Context) ([]*Task, error) {
	raw, err := c.session.ListTrash(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Task, 0, len(raw))
	for i := range raw {
		t, err := taskFromSession(&raw[i])
		if err != nil {
			return nil, err
		}
		t.Deleted = true
		out = append(out, t)
	}
	return out, nil
}

// --- Project operations ---

// ListProjects returns every project including the synthesized inbox entry.
// The backends never list the inbox themselves; its id comes from the
// session signon.
func (c *Client) ListProjects(ctx context.Context) ([]*Project, error) {
	raw, err := c.open.GetProjects(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Project, 0, len(raw)+1)
	if inbox := c.session.InboxID(); inbox != "" {
		out = append(out, inboxProject(inbox))
	}
	for i := range raw {
		out = append(out, projectFromOpenAPI(&raw[i]))
	}
	return out, nil
}

// GetProject fetches a single project. The inbox is answered locally since
// the Open API cannot address it.
func (c *Client) GetProject(ctx context.Context, projectID string) (*Project, error) {
	if projectID == c.session.InboxID() && projectID != "" {
		return inboxProject(projectID), nil
	}
	raw, err := c.open.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return projectFromOpenAPI(raw), nil
}

// GetProjectWithTasks fetches a project together with its undone tasks.
func (c *Client) GetProjectWithTasks(ctx context.Context, projectID string) (*ProjectWithTasks, error) {
	data, err := c.open.GetProjectData(ctx, projectID)
	if err != nil {
		return nil, err
	}
	p := projectFromOpenAPI(&data.Project)
	if projectID == c.session.InboxID() && projectID != "" {
		p = inboxProject(projectID)
	}
	out := &ProjectWithTasks{Project: p}
	for i := range data.Tasks {
		t, err := taskFromOpenAPI(&data.Tasks[i])
		if err != nil {
			return nil, err
		}
		out.Tasks = append(out.Tasks, t)
	}
	return out, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	const op = "createProject"
	if p.Name == "" {
		return nil, apierr.Validationf(op, "project name is required")
	}
	if p.Inbox {
		return nil, apierr.Validationf(op, "the inbox cannot be created")
	}
	created, err := c.open.CreateProject(ctx, projectToOpenAPI(p))
	if err != nil {
		return nil, err
	}
	return projectFromOpenAPI(created), nil
}

// UpdateProject updates a project's mutable fields. The inbox is not
// addressable for writes.
func (c *Client) UpdateProject(ctx context.Context, p *Project) (*Project, error) {
	const op = "updateProject"
	if p.ID == "" {
		return nil, apierr.Validationf(op, "project id is required")
	}
	if p.ID == c.session.InboxID() {
		return nil, apierr.Newf(apierr.KindForbidden, "", op, "the inbox project cannot be modified")
	}
	updated, err := c.open.UpdateProject(ctx, projectToOpenAPI(p))
	if err != nil {
		return nil, err
	}
	return projectFromOpenAPI(updated), nil
}

// DeleteProject deletes a project and everything in it. Deleting the inbox
// is rejected locally as Forbidden; no request is sent.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	const op = "deleteProject"
	if projectID == "" {
		return apierr.Validationf(op, "project id is required")
	}
	if projectID == c.session.InboxID() {
		return apierr.Newf(apierr.KindForbidden, "", op, "the inbox project cannot be deleted")
	}
	return c.open.DeleteProject(ctx, projectID)
}

// --- Folder operations ---

// ListFolders returns every project folder with its member project ids.
func (c *Client) ListFolders(ctx context.Context) ([]*Folder, error) {
	snapshot, err := c.session.Sync(ctx)
	if err != nil {
		return nil, err
	}

	projects := make([]*Project, 0, len(snapshot.ProjectProfiles))
	for i := range snapshot.ProjectProfiles {
		projects = append(projects, projectFromSession(&snapshot.ProjectProfiles[i]))
	}

	out := make([]*Folder, 0, len(snapshot.ProjectGroups))
	for i := range snapshot.ProjectGroups {
		out = append(out, folderFromSession(&snapshot.ProjectGroups[i], projects))
	}
	return out, nil
}

// GetFolder fetches a single project folder by id with its member project
// ids.
func (c *Client) GetFolder(ctx context.Context, folderID string) (*Folder, error) {
	const op = "getFolder"
	if folderID == "" {
		return nil, apierr.Validationf(op, "folder id is required")
	}
	snapshot, err := c.session.Sync(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.ProjectGroups {
		if snapshot.ProjectGroups[i].ID != folderID {
			continue
		}
		projects := make([]*Project, 0, len(snapshot.ProjectProfiles))
		for j := range snapshot.ProjectProfiles {
			projects = append(projects, projectFromSession(&snapshot.ProjectProfiles[j]))
		}
		return folderFromSession(&snapshot.ProjectGroups[i], projects), nil
	}
	return nil, apierr.Newf(apierr.KindNotFound, "", op, "folder %q not found", folderID)
}

// CreateFolder creates a project folder and returns it. Folder ids are
// client-assigned on this backend.
func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	const op = "createFolder"
	if name == "" {
		return nil, apierr.Validationf(op, "folder name is required")
	}
	g := sessionapi.ProjectGroup{ID: sessionapi.NewObjectID(), Name: name}
	if err := c.session.CreateFolder(ctx, g); err != nil {
		return nil, err
	}
	return &Folder{ID: g.ID, Name: g.Name}, nil
}

// RenameFolder renames a project folder.
func (c *Client) RenameFolder(ctx context.Context, folderID, name string) error {
	const op = "renameFolder"
	if folderID == "" {
		return apierr.Validationf(op, "folder id is required")
	}
	if name == "" {
		return apierr.Validationf(op, "folder name is required")
	}
	return c.session.UpdateFolder(ctx, sessionapi.ProjectGroup{ID: folderID, Name: name})
}

// DeleteFolder deletes a folder. Member projects survive and become
// ungrouped.
func (c *Client) DeleteFolder(ctx context.Context, folderID string) error {
	if folderID == "" {
		return apierr.Validationf("deleteFolder", "folder id is required")
	}
	return c.session.DeleteFolder(ctx, folderID)
}

// --- Tag operations ---

// ListTags returns every tag.
func (c *Client) ListTags(ctx context.Context) ([]*Tag, error) {
	snapshot, err := c.session.Sync(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Tag, 0, len(snapshot.Tags))
	for i := range snapshot.Tags {
		out = append(out, tagFromSession(&snapshot.Tags[i]))
	}
	return out, nil
}

// GetTag fetches a single tag by its case-sensitive name.
func (c *Client) GetTag(ctx context.Context, name string) (*Tag, error) {
	const op = "getTag"
	if name == "" {
		return nil, apierr.Validationf(op, "tag name is required")
	}
	snapshot, err := c.session.Sync(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snapshot.Tags {
		if snapshot.Tags[i].Name == name {
			return tagFromSession(&snapshot.Tags[i]), nil
		}
	}
	return nil, apierr.Newf(apierr.KindNotFound, "", op, "tag %q not found", name)
}

// CreateTag creates a tag. A parent reference is checked against the
// existing tag tree; a cycle is rejected before any request.
func (c *Client) CreateTag(ctx context.Context, tag *Tag) error {
	const op = "createTag"
	if tag.Name == "" {
		return apierr.Validationf(op, "tag name is required")
	}
	if tag.Parent != "" {
		tags, err := c.ListTags(ctx)
		if err != nil {
			return err
		}
		if err := checkTagCycle(op, tags, tag.Name, tag.Parent); err != nil {
			return err
		}
	}
	return c.session.CreateTag(ctx, tagToSession(tag))
}

// UpdateTag updates a tag's color or parent. Renames go through RenameTag;
// the name is the identity here.
func (c *Client) UpdateTag(ctx context.Context, tag *Tag) error {
	const op = "updateTag"
	if tag.Name == "" {
		return apierr.Validationf(op, "tag name is required")
	}
	if tag.Parent != "" {
		tags, err := c.ListTags(ctx)
		if err != nil {
			return err
		}
		if err := checkTagCycle(op, tags, tag.Name, tag.Parent); err != nil {
			return err
		}
	}
	return c.session.UpdateTag(ctx, tagToSession(tag))
}

// DeleteTag deletes a tag. Tasks that carried it simply lose it.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	if name == "" {
		return apierr.Validationf("deleteTag", "tag name is required")
	}
	return c.session.DeleteTag(ctx, name)
}

// RenameTag renames a tag account-wide. The old tag must exist and the new
// name must be free; both are checked before the call so the rename is
// atomic from the caller's view.
func (c *Client) RenameTag(ctx context.Context, oldName, newName string) error {
	const op = "renameTag"
	if oldName == "" || newName == "" {
		return apierr.Validationf(op, "both old and new tag names are required")
	}
	if oldName == newName {
		return nil
	}

	tags, err := c.ListTags(ctx)
	if err != nil {
		return err
	}
	var oldExists bool
	for _, t := range tags {
		if t.Name == newName {
			return apierr.Validationf(op, "tag %q already exists", newName)
		}
		if t.Name == oldName {
			oldExists = true
		}
	}
	if !oldExists {
		return apierr.Newf(apierr.KindNotFound, "", op, "tag %q not found", oldName)
	}
	return c.session.RenameTag(ctx, oldName, newName)
}

// MergeTags merges the source tag into target: every task tagged source
// carries target afterwards and source disappears. Idempotent: a merge whose
// source is already gone is a no-op, not an error.
func (c *Client) MergeTags(ctx context.Context, source, target string) error {
	const op = "mergeTags"
	if source == "" || target == "" {
		return apierr.Validationf(op, "both source and target tag names are required")
	}
	if source == target {
		return nil
	}

	tags, err := c.ListTags(ctx)
	if err != nil {
		return err
	}
	var sourceExists, targetExists bool
	for _, t := range tags {
		if t.Name == source {
			sourceExists = true
		}
		if t.Name == target {
			targetExists = true
		}
	}
	if !sourceExists {
		return nil
	}
	if !targetExists {
		return apierr.Newf(apierr.KindNotFound, "", op, "target tag %q not found", target)
	}
	return c.session.MergeTag(ctx, source, target)
}

// checkTagCycle rejects a parent assignment that would loop the tag tree.
// Walks the parent chain from the proposed parent; reaching the tag itself
// means a cycle. Chain length is bounded by the tag count to survive
// pre-existing corrupt data.
func checkTagCycle(op string, tags []*Tag, name, parent string) error {
	if parent == name {
		return apierr.Validationf(op, "tag %q cannot be its own parent", name)
	}
	parents := make(map[string]string, len(tags))
	for _, t := range tags {
		parents[t.Name] = t.Parent
	}
	current := parent
	for range tags {
		next, ok := parents[current]
		if !ok || next == "" {
			return nil
		}
		if next == name {
			return apierr.Validationf(op, "parent %q would create a tag cycle through %q", parent, name)
		}
		current = next
	}
	return nil
}

// --- Account operations ---

// GetUser returns the account profile.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	raw, err := c.session.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return userFromSession(raw), nil
}

// GetUserStatus returns the account status including the inbox project id.
func (c *Client) GetUserStatus(ctx context.Context) (*UserStatus, error) {
	raw, err := c.session.GetStatus(ctx)
	if err != nil {
		return nil, err
	}
	return statusFromSession(raw), nil
}

// GetUserStatistics returns the productivity counters.
func (c *Client) GetUserStatistics(ctx context.Context) (*UserStatistics, error) {
	raw, err := c.session.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return statisticsFromSession(raw), nil
}

// GetFocusSummary returns the focus/pomodoro counters.
func (c *Client) GetFocusSummary(ctx context.Context) (*FocusSummary, error) {
	raw, err := c.session.GetFocusSummary(ctx)
	if err != nil {
		return nil, err
	}
	return focusFromSession(raw), nil
}

// FullSync returns the raw account snapshot exactly as the session backend
// sent it, for callers that want fields the canonical model drops.
func (c *Client) FullSync(ctx context.Context) (json.RawMessage, error) {
	return c.session.FullSync(ctx)
}
