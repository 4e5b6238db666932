package sessionapi

// Wire types for the undocumented session API (v2). These shapes were
// observed from the web client's traffic; fields not needed by the unified
// client are omitted. Timestamps stay strings at this layer.

// signonRequest is the login payload.
type signonRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignonResponse is the login result. Token doubles as the `t` session
// cookie value.
type SignonResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Pro      bool   `json:"pro"`
	InboxID  string `json:"inboxId"`
}

// Task is a task as the v2 API sends it. Superset of the Open API shape:
// it additionally carries tags, the parent/child linkage and the soft-delete
// marker.
type Task struct {
	ID            string          `json:"id,omitempty"`
	ProjectID     string          `json:"projectId,omitempty"`
	Title         string          `json:"title,omitempty"`
	Content       string          `json:"content,omitempty"`
	IsAllDay      bool            `json:"isAllDay,omitempty"`
	StartDate     string          `json:"startDate,omitempty"`
	DueDate       string          `json:"dueDate,omitempty"`
	TimeZone      string          `json:"timeZone,omitempty"`
	RepeatFlag    string          `json:"repeatFlag,omitempty"`
	Reminders     []Reminder      `json:"reminders,omitempty"`
	Priority      int             `json:"priority"`
	Status        int             `json:"status"`
	CompletedTime string          `json:"completedTime,omitempty"`
	SortOrder     int64           `json:"sortOrder,omitempty"`
	Items         []ChecklistItem `json:"items,omitempty"`
	Kind          string          `json:"kind,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	ParentID      string          `json:"parentId,omitempty"`
	ChildIDs      []string        `json:"childIds,omitempty"`
	Deleted       int             `json:"deleted,omitempty"`
	Etag          string          `json:"etag,omitempty"`
}

// Reminder is a v2 reminder record; the trigger offset string matches the
// Open API's plain reminder strings.
type Reminder struct {
	ID      string `json:"id,omitempty"`
	Trigger string `json:"trigger,omitempty"`
}

// ChecklistItem is one subtask entry of a checklist task.
type ChecklistItem struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title,omitempty"`
	Status        int    `json:"status"`
	CompletedTime string `json:"completedTime,omitempty"`
	IsAllDay      bool   `json:"isAllDay,omitempty"`
	SortOrder     int64  `json:"sortOrder,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	TimeZone      string `json:"timeZone,omitempty"`
}

// Tag as the v2 API sends it. Name is the identifying key; label is the
// display casing.
type Tag struct {
	Name      string `json:"name"`
	Label     string `json:"label,omitempty"`
	Color     string `json:"color,omitempty"`
	Parent    string `json:"parent,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
	Etag      string `json:"etag,omitempty"`
}

// ProjectProfile is a project as the v2 API sends it.
type ProjectProfile struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Color     string `json:"color,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	ViewMode  string `json:"viewMode,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Closed    bool   `json:"closed,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
}

// ProjectGroup is a folder of projects.
type ProjectGroup struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	SortOrder int64  `json:"sortOrder,omitempty"`
	Etag      string `json:"etag,omitempty"`
}

// SyncTaskBean is the task delta of a full sync. For checkpoint 0 the
// update list holds every live task in the account.
type SyncTaskBean struct {
	Update []Task   `json:"update"`
	Add    []Task   `json:"add,omitempty"`
	Delete []string `json:"delete,omitempty"`
}

// SyncResponse is the full account snapshot from GET /batch/check/0.
type SyncResponse struct {
	InboxID         string           `json:"inboxId"`
	ProjectProfiles []ProjectProfile `json:"projectProfiles"`
	ProjectGroups   []ProjectGroup   `json:"projectGroups"`
	SyncTaskBean    SyncTaskBean     `json:"syncTaskBean"`
	Tags            []Tag            `json:"tags"`
	CheckPoint      int64            `json:"checkPoint"`
}

// batchTagRequest adds or updates tags via POST /batch/tag.
type batchTagRequest struct {
	Add    []Tag `json:"add,omitempty"`
	Update []Tag `json:"update,omitempty"`
}

// batchGroupRequest mutates folders via POST /batch/projectGroup.
type batchGroupRequest struct {
	Add    []ProjectGroup `json:"add,omitempty"`
	Update []ProjectGroup `json:"update,omitempty"`
	Delete []string       `json:"delete,omitempty"`
}

// tagRename is the payload for PUT /tag/rename and PUT /tag/merge. For a
// merge, NewName is the surviving tag.
type tagRename struct {
	Name    string `json:"name"`
	NewName string `json:"newName"`
}

// taskProjectMove is one element of the POST /batch/taskProject payload.
type taskProjectMove struct {
	FromProjectID string `json:"fromProjectId"`
	ToProjectID   string `json:"toProjectId"`
	TaskID        string `json:"taskId"`
}

// taskParentSet is one element of the POST /batch/taskParent payload when
// establishing a parent link.
type taskParentSet struct {
	TaskID    string `json:"taskId"`
	ParentID  string `json:"parentId"`
	ProjectID string `json:"projectId"`
}

// taskParentUnset is one element of the POST /batch/taskParent payload when
// removing a parent link.
type taskParentUnset struct {
	TaskID      string `json:"taskId"`
	OldParentID string `json:"oldParentId"`
	ProjectID   string `json:"projectId"`
}

// BatchResponse reports per-id results for batch mutations. A non-empty
// id2error map means the overall 200 response still carries failures.
type BatchResponse struct {
	ID2Etag  map[string]string `json:"id2etag,omitempty"`
	ID2Error map[string]string `json:"id2error,omitempty"`
}

// UserProfile is the read-only profile snapshot.
type UserProfile struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

// UserStatus is the read-only account status snapshot. InboxID identifies
// the one non-deletable inbox project.
type UserStatus struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Pro      bool   `json:"pro"`
	InboxID  string `json:"inboxId"`
}

// Statistics is the read-only productivity counter snapshot.
type Statistics struct {
	Score              int `json:"score"`
	Level              int `json:"level"`
	TodayCompleted     int `json:"todayCompleted"`
	YesterdayCompleted int `json:"yesterdayCompleted"`
	TotalCompleted     int `json:"totalCompleted"`
}

// FocusSummary is the read-only pomodoro/focus counter snapshot. Durations
// are in minutes as the backend reports them.
type FocusSummary struct {
	TodayPomoCount    int   `json:"todayPomoCount"`
	TotalPomoCount    int   `json:"totalPomoCount"`
	TodayPomoDuration int64 `json:"todayPomoDuration"`
	TotalPomoDuration int64 `json:"totalPomoDuration"`
}

// TrashPage is one page of the soft-deleted task listing.
type TrashPage struct {
	Tasks []Task `json:"tasks"`
	Next  int64  `json:"next,omitempty"`
}

// apiError is the error body the v2 API returns alongside a non-2xx status.
type apiError struct {
	ErrorID      string `json:"errorId,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
