package ticktick

import (
	"sort"
	"time"
)

// Priority is the canonical task priority. The numeric codes are the
// backend's own non-contiguous scale and are preserved exactly on the wire.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 5
)

// Valid reports whether p is one of the supported priority codes.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

// Status is the canonical task status.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// TaskKind distinguishes plain tasks from notes and checklists.
type TaskKind string

const (
	TaskKindText      TaskKind = "TEXT"
	TaskKindNote      TaskKind = "NOTE"
	TaskKindChecklist TaskKind = "CHECKLIST"
)

// ViewMode is a project's display mode.
type ViewMode string

const (
	ViewModeList     ViewMode = "list"
	ViewModeKanban   ViewMode = "kanban"
	ViewModeTimeline ViewMode = "timeline"
)

// ProjectKind distinguishes task projects from note projects.
type ProjectKind string

const (
	ProjectKindTask ProjectKind = "TASK"
	ProjectKindNote ProjectKind = "NOTE"
)

// ChecklistItem is one entry of a checklist task. Order within Task.Items is
// the order the backend returned; no local reordering is performed.
type ChecklistItem struct {
	ID        string
	Title     string
	Completed bool
	IsAllDay  bool
	StartDate *time.Time
	TimeZone  string
	SortOrder int64
}

// Task is the canonical, backend-agnostic task representation.
//
// StartDate, DueDate and CompletedTime are nil when absent; absence is a
// distinct state from the zero time. Tags carry set semantics: the backends
// do not guarantee a stable order, so Tags is kept sorted for determinism
// and callers must not read meaning into the order.
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Content   string

	Status   Status
	Priority Priority
	Kind     TaskKind

	IsAllDay  bool
	StartDate *time.Time
	DueDate   *time.Time
	TimeZone  string

	// RepeatFlag is an opaque recurrence rule string (RRULE format),
	// passed through unparsed.
	RepeatFlag string

	// Reminders are trigger offsets, order preserved from the backend.
	Reminders []string

	Tags []string

	// ParentID is set only via the make-subtask operation; it is ignored
	// at creation time by the backend.
	ParentID string
	ChildIDs []string

	Items []ChecklistItem

	SortOrder     int64
	CompletedTime *time.Time

	// Deleted marks a soft-deleted task. Soft-deleted tasks remain
	// fetchable by id but are excluded from default listings.
	Deleted bool
}

// HasTag reports whether the task carries the named tag. Tag names are
// case-sensitive.
func (t *Task) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

// SetTags replaces the task's tags with the set semantics the canonical
// model guarantees: duplicates removed, result sorted.
func (t *Task) SetTags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	t.Tags = out
}

// Project is the canonical project representation. Exactly one project per
// account is the inbox; it is never deletable.
type Project struct {
	ID       string
	Name     string
	Color    string
	ViewMode ViewMode
	Kind     ProjectKind
	GroupID  string
	Closed   bool
	Inbox    bool

	SortOrder int64
}

// Folder groups projects. ProjectIDs preserves the backend's member order.
type Folder struct {
	ID        string
	Name      string
	SortOrder int64

	ProjectIDs []string
}

// Tag is identified by its case-sensitive name; tags have no separate
// numeric id. Parent forms a tree; cycles are rejected at the client.
type Tag struct {
	Name      string
	Label     string
	Color     string
	Parent    string
	SortOrder int64
}

// User is a read-only profile snapshot.
type User struct {
	Username string
	Name     string
	Picture  string
	Locale   string
}

// UserStatus is a read-only account status snapshot.
type UserStatus struct {
	UserID   string
	Username string
	Pro      bool
	InboxID  string
}

// UserStatistics is a read-only productivity counter snapshot.
type UserStatistics struct {
	Score              int
	Level              int
	TodayCompleted     int
	YesterdayCompleted int
	TotalCompleted     int
}

// FocusSummary is a read-only focus/pomodoro counter snapshot.
type FocusSummary struct {
	TodayPomoCount    int
	TotalPomoCount    int
	TodayPomoDuration time.Duration
	TotalPomoDuration time.Duration
}
