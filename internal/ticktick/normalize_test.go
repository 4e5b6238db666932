package ticktick

import (
	"errors"
	"testing"
	"time"

	"github.com/avandorp/ticktick-mcp/internal/apierr"
	"github.com/avandorp/ticktick-mcp/internal/openapi"
	"github.com/avandorp/ticktick-mcp/internal/sessionapi"
)

func TestParseAPITime(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string // RFC3339 of expected instant, "" for nil
	}{
		{"backend_layout", "2025-03-14T09:30:00.000+0000", "2025-03-14T09:30:00Z"},
		{"backend_layout_offset", "2025-03-14T09:30:00.000+0200", "2025-03-14T07:30:00Z"},
		{"rfc3339_fallback", "2025-03-14T09:30:00Z", "2025-03-14T09:30:00Z"},
		{"empty", "", ""},
		{"garbage", "not-a-date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAPITime(tt.in)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a time, got nil")
			}
			want, _ := time.Parse(time.RFC3339, tt.want)
			if !got.Equal(want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestFormatAPITimeRoundTrip(t *testing.T) {
	if formatAPITime(nil) != "" {
		t.Error("nil must format to empty string")
	}
	in := "2025-03-14T09:30:00.000+0000"
	parsed := parseAPITime(in)
	if parsed == nil {
		t.Fatal("parse failed")
	}
	if got := formatAPITime(parsed); got != in {
		t.Errorf("round trip changed value: %q -> %q", in, got)
	}
}

func TestNormalizePriority(t *testing.T) {
	for code, want := range map[int]Priority{
		0: PriorityNone, 1: PriorityLow, 3: PriorityMedium, 5: PriorityHigh,
	} {
		got, err := normalizePriority(code)
		if err != nil || got != want {
			t.Errorf("code %d: got %v, %v, want %v", code, got, err, want)
		}
	}
	for _, code := range []int{2, 4, 7, -1} {
		if _, err := normalizePriority(code); !errors.Is(err, apierr.ErrValidation) {
			t.Errorf("code %d: expected validation error, got %v", code, err)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	for code, want := range map[int]Status{
		0: StatusActive, 2: StatusCompleted, -1: StatusAbandoned,
	} {
		got, err := normalizeStatus(code)
		if err != nil || got != want {
			t.Errorf("code %d: got %v, %v, want %v", code, got, err, want)
		}
	}
	for _, code := range []int{1, 99} {
		if _, err := normalizeStatus(code); !errors.Is(err, apierr.ErrValidation) {
			t.Errorf("code %d: expected validation error, got %v", code, err)
		}
	}
}

func TestTaskFromOpenAPI(t *testing.T) {
	in := &openapi.Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Review PR",
		Priority:  5,
		Status:    2,
		DueDate:   "2025-03-14T09:30:00.000+0000",
		Kind:      "CHECKLIST",
		Items: []openapi.ChecklistItem{
			{ID: "i1", Title: "read diff", Status: 2},
			{ID: "i2", Title: "leave comments", Status: 0},
		},
	}

	got, err := taskFromOpenAPI(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Priority != PriorityHigh {
		t.Errorf("priority: got %v", got.Priority)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status: got %v", got.Status)
	}
	if got.DueDate == nil || got.StartDate != nil {
		t.Errorf("dates: due=%v start=%v", got.DueDate, got.StartDate)
	}
	if got.Kind != TaskKindChecklist || len(got.Items) != 2 {
		t.Errorf("checklist: kind=%v items=%d", got.Kind, len(got.Items))
	}
	if !got.Items[0].Completed || got.Items[1].Completed {
		t.Errorf("item completion: %+v", got.Items)
	}
	if got.Tags != nil {
		t.Error("open api tasks never carry tags")
	}
}

func TestTaskFromSessionNormalizesTags(t *testing.T) {
	in := &sessionapi.Task{
		ID:       "t1",
		Title:    "Pack bags",
		Tags:     []string{"travel", "errand", "travel"},
		ParentID: "parent-1",
		Deleted:  1,
		Priority: 5,
	}

	got, err := taskFromSession(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "errand" || got.Tags[1] != "travel" {
		t.Errorf("tags not deduped and sorted: %v", got.Tags)
	}
	if !got.Deleted {
		t.Error("deleted marker lost")
	}
	if got.ParentID != "parent-1" {
		t.Errorf("parent lost: %q", got.ParentID)
	}
}

func TestTaskFromSessionUnknownPriorityFailsClosed(t *testing.T) {
	_, err := taskFromSession(&sessionapi.Task{ID: "t1", Title: "bad", Priority: 4})
	if !errors.Is(err, apierr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTaskToOpenAPIRoundTrip(t *testing.T) {
	due := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	in := &Task{
		ID:        "t1",
		ProjectID: "p1",
		Title:     "Review PR",
		Priority:  PriorityMedium,
		Status:    StatusActive,
		DueDate:   &due,
		Items:     []ChecklistItem{{ID: "i1", Title: "read diff", Completed: true}},
	}

	wire := taskToOpenAPI(in)
	if wire.Priority != 3 || wire.Status != 0 {
		t.Errorf("codes: priority=%d status=%d", wire.Priority, wire.Status)
	}
	if wire.DueDate != "2025-03-14T09:30:00.000+0000" {
		t.Errorf("due date format: %q", wire.DueDate)
	}
	if wire.StartDate != "" {
		t.Errorf("absent start date must stay empty, got %q", wire.StartDate)
	}
	if len(wire.Items) != 1 || wire.Items[0].Status != 2 {
		t.Errorf("checklist: %+v", wire.Items)
	}

	back, err := taskFromOpenAPI(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Priority != in.Priority || !back.DueDate.Equal(due) {
		t.Errorf("round trip drifted: %+v", back)
	}
}

func TestMergeSessionOnly(t *testing.T) {
	due := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	authoritative := &Task{ID: "t1", Title: "From open API", Priority: PriorityHigh, DueDate: &due}
	session := &Task{ID: "t1", Title: "Stale title", Priority: PriorityLow,
		Tags: []string{"b", "a"}, ParentID: "parent-1", ChildIDs: []string{"c1"}}

	mergeSessionOnly(authoritative, session)
	if authoritative.Title != "From open API" || authoritative.Priority != PriorityHigh {
		t.Error("open api fields must stay authoritative in a join")
	}
	if len(authoritative.Tags) != 2 || authoritative.Tags[0] != "a" {
		t.Errorf("tags not merged: %v", authoritative.Tags)
	}
	if authoritative.ParentID != "parent-1" || len(authoritative.ChildIDs) != 1 {
		t.Error("linkage not merged")
	}
}

func TestInboxProject(t *testing.T) {
	p := inboxProject("inbox-u1")
	if !p.Inbox || p.ID != "inbox-u1" || p.Name != "Inbox" {
		t.Errorf("unexpected inbox synthesis: %+v", p)
	}
}

func TestFolderFromSessionDerivesMembers(t *testing.T) {
	projects := []*Project{
		{ID: "p1", GroupID: "g1"},
		{ID: "p2", GroupID: "g2"},
		{ID: "p3", GroupID: "g1"},
	}
	f := folderFromSession(&sessionapi.ProjectGroup{ID: "g1", Name: "Clients"}, projects)
	if len(f.ProjectIDs) != 2 || f.ProjectIDs[0] != "p1" || f.ProjectIDs[1] != "p3" {
		t.Errorf("unexpected members: %v", f.ProjectIDs)
	}
}

func TestTagFromSessionLabelFallback(t *testing.T) {
	tag := tagFromSession(&sessionapi.Tag{Name: "errand"})
	if tag.Label != "errand" {
		t.Errorf("missing label must fall back to name, got %q", tag.Label)
	}
	tag = tagFromSession(&sessionapi.Tag{Name: "errand", Label: "Errand"})
	if tag.Label != "Errand" {
		t.Errorf("explicit label lost: %q", tag.Label)
	}
}

func TestFocusFromSessionConvertsMinutes(t *testing.T) {
	got := focusFromSession(&sessionapi.FocusSummary{TodayPomoDuration: 75, TotalPomoDuration: 3000})
	if got.TodayPomoDuration != 75*time.Minute {
		t.Errorf("today duration: %v", got.TodayPomoDuration)
	}
	if got.TotalPomoDuration != 50*time.Hour {
		t.Errorf("total duration: %v", got.TotalPomoDuration)
	}
}

func TestValidateTaskForWrite(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	due := start.Add(-time.Hour)

	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{"valid", Task{Title: "ok", Priority: PriorityHigh}, false},
		{"missing_title", Task{Priority: PriorityNone}, true},
		{"bad_priority", Task{Title: "ok", Priority: Priority(2)}, true},
		{"repeat_without_start", Task{Title: "ok", RepeatFlag: "RRULE:FREQ=DAILY"}, true},
		{"repeat_with_start", Task{Title: "ok", RepeatFlag: "RRULE:FREQ=DAILY", StartDate: &start}, false},
		{"due_before_start", Task{Title: "ok", StartDate: &start, DueDate: &due}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTaskForWrite("test", &tt.task)
			if tt.wantErr {
				if !errors.Is(err, apierr.ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
