package ticktick

import (
	"time"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
	"github.com/avandorp/ticktick-mcp/internal/openapi"
	"github.com/avandorp/ticktick-mcp/internal/sessionapi"
)

// apiTimeLayout is the timestamp format both backends emit, e.g.
// "2025-03-14T09:30:00.000+0000". RFC 3339 is accepted as a fallback since
// some session endpoints use a colon in the zone offset.
const apiTimeLayout = "2006-01-02T15:04:05.000-0700"

// parseAPITime parses a backend timestamp. Empty strings map to nil;
// unparseable values also map to nil rather than to a fake zero time, so a
// malformed date from the backend degrades to "no date" instead of
// "January 1, year 1".
func parseAPITime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(apiTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
	}
	return &t
}

// formatAPITime renders a canonical timestamp for the wire. Nil maps to the
// empty string, which the wire types omit.
func formatAPITime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(apiTimeLayout)
}

// normalizePriority maps a wire priority onto the canonical scale. The codes
// are non-contiguous; anything outside the known set fails closed with a
// validation error rather than silently defaulting.
func normalizePriority(code int) (Priority, error) {
	p := Priority(code)
	if !p.Valid() {
		return PriorityNone, apierr.Validationf("normalize", "unrecognized priority code %d", code)
	}
	return p, nil
}

// normalizeStatus maps a wire status onto the canonical enum. Unknown codes
// fail closed like priority.
func normalizeStatus(code int) (Status, error) {
	switch code {
	case statusCodeActive:
		return StatusActive, nil
	case statusCodeCompleted:
		return StatusCompleted, nil
	case statusCodeAbandoned:
		return StatusAbandoned, nil
	default:
		return StatusActive, apierr.Validationf("normalize", "unrecognized status code %d", code)
	}
}

// Wire status codes shared by both backends.
const (
	statusCodeActive    = 0
	statusCodeCompleted = 2
	statusCodeAbandoned = -1
)

// statusCode renders the canonical status back to its wire code.
func statusCode(s Status) int {
	switch s {
	case StatusCompleted:
		return statusCodeCompleted
	case StatusAbandoned:
		return statusCodeAbandoned
	default:
		return statusCodeActive
	}
}

// normalizeKind maps a wire kind string onto the canonical enum, defaulting
// to a plain text task.
func normalizeKind(kind string) TaskKind {
	switch TaskKind(kind) {
	case TaskKindNote, TaskKindChecklist:
		return TaskKind(kind)
	default:
		return TaskKindText
	}
}

// taskFromOpenAPI converts an Open API task to the canonical model. The Open
// API never carries tags, parent linkage or the delete marker; those fields
// stay zero and composite reads fill them from the session snapshot.
func taskFromOpenAPI(in *openapi.Task) (*Task, error) {
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}
	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	t := &Task{
		ID:            in.ID,
		ProjectID:     in.ProjectID,
		Title:         in.Title,
		Content:       in.Content,
		Status:        status,
		Priority:      priority,
		Kind:          normalizeKind(in.Kind),
		IsAllDay:      in.IsAllDay,
		StartDate:     parseAPITime(in.StartDate),
		DueDate:       parseAPITime(in.DueDate),
		TimeZone:      in.TimeZone,
		RepeatFlag:    in.RepeatFlag,
		Reminders:     in.Reminders,
		SortOrder:     in.SortOrder,
		CompletedTime: parseAPITime(in.CompletedTime),
	}
	for _, item := range in.Items {
		t.Items = append(t.Items, checklistItemFromOpenAPI(item))
	}
	return t, nil
}

func checklistItemFromOpenAPI(in openapi.ChecklistItem) ChecklistItem {
	return ChecklistItem{
		ID:        in.ID,
		Title:     in.Title,
		Completed: in.Status == statusCodeCompleted,
		IsAllDay:  in.IsAllDay,
		StartDate: parseAPITime(in.StartDate),
		TimeZone:  in.TimeZone,
		SortOrder: in.SortOrder,
	}
}

// taskToOpenAPI converts a canonical task to the Open API wire shape for
// create and update calls.
func taskToOpenAPI(in *Task) *openapi.Task {
	out := &openapi.Task{
		ID:            in.ID,
		ProjectID:     in.ProjectID,
		Title:         in.Title,
		Content:       in.Content,
		Status:        statusCode(in.Status),
		Priority:      int(in.Priority),
		Kind:          string(in.Kind),
		IsAllDay:      in.IsAllDay,
		StartDate:     formatAPITime(in.StartDate),
		DueDate:       formatAPITime(in.DueDate),
		TimeZone:      in.TimeZone,
		RepeatFlag:    in.RepeatFlag,
		Reminders:     in.Reminders,
		SortOrder:     in.SortOrder,
		CompletedTime: formatAPITime(in.CompletedTime),
	}
	for _, item := range in.Items {
		status := statusCodeActive
		if item.Completed {
			status = statusCodeCompleted
		}
		out.Items = append(out.Items, openapi.ChecklistItem{
			ID:        item.ID,
			Title:     item.Title,
			Status:    status,
			IsAllDay:  item.IsAllDay,
			StartDate: formatAPITime(item.StartDate),
			TimeZone:  item.TimeZone,
			SortOrder: item.SortOrder,
		})
	}
	return out
}

// taskFromSession converts a session API task to the canonical model. Tags
// are normalized to sorted set order.
func taskFromSession(in *sessionapi.Task) (*Task, error) {
	status, err := normalizeStatus(in.Status)
	if err != nil {
		return nil, err
	}
	priority, err := normalizePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	t := &Task{
		ID:            in.ID,
		ProjectID:     in.ProjectID,
		Title:         in.Title,
		Content:       in.Content,
		Status:        status,
		Priority:      priority,
		Kind:          normalizeKind(in.Kind),
		IsAllDay:      in.IsAllDay,
		StartDate:     parseAPITime(in.StartDate),
		DueDate:       parseAPITime(in.DueDate),
		TimeZone:      in.TimeZone,
		RepeatFlag:    in.RepeatFlag,
		ParentID:      in.ParentID,
		ChildIDs:      in.ChildIDs,
		SortOrder:     in.SortOrder,
		CompletedTime: parseAPITime(in.CompletedTime),
		Deleted:       in.Deleted != 0,
	}
	t.SetTags(in.Tags)
	for _, r := range in.Reminders {
		t.Reminders = append(t.Reminders, r.Trigger)
	}
	for _, item := range in.Items {
		t.Items = append(t.Items, ChecklistItem{
			ID:        item.ID,
			Title:     item.Title,
			Completed: item.Status == statusCodeCompleted,
			IsAllDay:  item.IsAllDay,
			StartDate: parseAPITime(item.StartDate),
			TimeZone:  item.TimeZone,
			SortOrder: item.SortOrder,
		})
	}
	return t, nil
}

// mergeSessionOnly copies the session-only fields onto a task sourced from
// the Open API. The Open API record stays authoritative for every field both
// backends carry.
func mergeSessionOnly(dst *Task, src *Task) {
	dst.SetTags(src.Tags)
	dst.ParentID = src.ParentID
	dst.ChildIDs = src.ChildIDs
	dst.Deleted = src.Deleted
}

// projectFromOpenAPI converts an Open API project to the canonical model.
// The Open API cannot tell the inbox apart; the caller flags it using the
// session inbox id.
func projectFromOpenAPI(in *openapi.Project) *Project {
	return &Project{
		ID:        in.ID,
		Name:      in.Name,
		Color:     in.Color,
		ViewMode:  normalizeViewMode(in.ViewMode),
		Kind:      normalizeProjectKind(in.Kind),
		GroupID:   in.GroupID,
		Closed:    in.Closed,
		SortOrder: in.SortOrder,
	}
}

// projectFromSession converts a session project profile to the canonical
// model.
func projectFromSession(in *sessionapi.ProjectProfile) *Project {
	return &Project{
		ID:        in.ID,
		Name:      in.Name,
		Color:     in.Color,
		ViewMode:  normalizeViewMode(in.ViewMode),
		Kind:      normalizeProjectKind(in.Kind),
		GroupID:   in.GroupID,
		Closed:    in.Closed,
		SortOrder: in.SortOrder,
	}
}

// projectToOpenAPI converts a canonical project to the Open API wire shape.
func projectToOpenAPI(in *Project) *openapi.Project {
	return &openapi.Project{
		ID:        in.ID,
		Name:      in.Name,
		Color:     in.Color,
		ViewMode:  string(in.ViewMode),
		Kind:      string(in.Kind),
		SortOrder: in.SortOrder,
	}
}

func normalizeViewMode(mode string) ViewMode {
	switch ViewMode(mode) {
	case ViewModeKanban, ViewModeTimeline:
		return ViewMode(mode)
	default:
		return ViewModeList
	}
}

func normalizeProjectKind(kind string) ProjectKind {
	if ProjectKind(kind) == ProjectKindNote {
		return ProjectKindNote
	}
	return ProjectKindTask
}

// inboxProject synthesizes the canonical inbox entry. The backends never
// list the inbox as a project; only its id is known, from the session
// status.
func inboxProject(inboxID string) *Project {
	return &Project{
		ID:       inboxID,
		Name:     "Inbox",
		ViewMode: ViewModeList,
		Kind:     ProjectKindTask,
		Inbox:    true,
	}
}

// folderFromSession converts a session project group to the canonical
// model. Membership is derived from the projects' group ids, so the caller
// passes the already-converted project list.
func folderFromSession(in *sessionapi.ProjectGroup, projects []*Project) *Folder {
	f := &Folder{
		ID:        in.ID,
		Name:      in.Name,
		SortOrder: in.SortOrder,
	}
	for _, p := range projects {
		if p.GroupID == in.ID {
			f.ProjectIDs = append(f.ProjectIDs, p.ID)
		}
	}
	return f
}

// tagFromSession converts a session tag to the canonical model. A missing
// label falls back to the name so display code never sees an empty label.
func tagFromSession(in *sessionapi.Tag) *Tag {
	label := in.Label
	if label == "" {
		label = in.Name
	}
	return &Tag{
		Name:      in.Name,
		Label:     label,
		Color:     in.Color,
		Parent:    in.Parent,
		SortOrder: in.SortOrder,
	}
}

// tagToSession converts a canonical tag to the session wire shape.
func tagToSession(in *Tag) sessionapi.Tag {
	return sessionapi.Tag{
		Name:      in.Name,
		Label:     in.Label,
		Color:     in.Color,
		Parent:    in.Parent,
		SortOrder: in.SortOrder,
	}
}

func userFromSession(in *sessionapi.UserProfile) *User {
	return &User{
		Username: in.Username,
		Name:     in.Name,
		Picture:  in.Picture,
		Locale:   in.Locale,
	}
}

func statusFromSession(in *sessionapi.UserStatus) *UserStatus {
	return &UserStatus{
		UserID:   in.UserID,
		Username: in.Username,
		Pro:      in.Pro,
		InboxID:  in.InboxID,
	}
}

func statisticsFromSession(in *sessionapi.Statistics) *UserStatistics {
	return &UserStatistics{
		Score:              in.Score,
		Level:              in.Level,
		TodayCompleted:     in.TodayCompleted,
		YesterdayCompleted: in.YesterdayCompleted,
		TotalCompleted:     in.TotalCompleted,
	}
}

func focusFromSession(in *sessionapi.FocusSummary) *FocusSummary {
	return &FocusSummary{
		TodayPomoCount:    in.TodayPomoCount,
		TotalPomoCount:    in.TotalPomoCount,
		TodayPomoDuration: time.Duration(in.TodayPomoDuration) * time.Minute,
		TotalPomoDuration: time.Duration(in.TotalPomoDuration) * time.Minute,
	}
}

// validateTaskForWrite enforces the cross-field rules every create and
// update must satisfy before any network call.
func validateTaskForWrite(op string, t *Task) error {
	if t.Title == "" {
		return apierr.Validationf(op, "title is required")
	}
	if !t.Priority.Valid() {
		return apierr.Validationf(op, "priority %d is not one of 0, 1, 3, 5", int(t.Priority))
	}
	if t.RepeatFlag != "" && t.StartDate == nil {
		return apierr.Validationf(op, "a repeat rule requires a start date")
	}
	if t.StartDate != nil && t.DueDate != nil && t.DueDate.Before(*t.StartDate) {
		return apierr.Validationf(op, "due date precedes start date")
	}
	return nil
}
