package task_tools

import (
	"testing"
	"time"

	"github.com/avandorp/ticktick-mcp/internal/ticktick"
)

func TestTaskFromArgs(t *testing.T) {
	task, errResult := taskFromArgs(map[string]interface{}{
		"title":      "Write report",
		"projectId":  "proj-1",
		"content":    "quarterly numbers",
		"priority":   float64(5),
		"startDate":  "2025-03-14T09:00:00Z",
		"dueDate":    "2025-03-15T17:00:00Z",
		"repeatFlag": "RRULE:FREQ=WEEKLY",
	})
	if errResult != nil {
		t.Fatalf("unexpected error result: %+v", errResult)
	}
	if task.Title != "Write report" || task.ProjectID != "proj-1" {
		t.Errorf("unexpected task identity: %+v", task)
	}
	if task.Priority != ticktick.PriorityHigh {
		t.Errorf("priority = %v, want high", task.Priority)
	}
	if task.StartDate == nil || !task.StartDate.Equal(time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("startDate = %v", task.StartDate)
	}
	if task.DueDate == nil || !task.DueDate.Equal(time.Date(2025, 3, 15, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("dueDate = %v", task.DueDate)
	}
	if task.RepeatFlag != "RRULE:FREQ=WEEKLY" {
		t.Errorf("repeatFlag = %q", task.RepeatFlag)
	}
}

func TestTaskFromArgsRequiresTitle(t *testing.T) {
	_, errResult := taskFromArgs(map[string]interface{}{"projectId": "proj-1"})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for missing title")
	}
}

func TestTaskFromArgsRejectsUnknownPriority(t *testing.T) {
	_, errResult := taskFromArgs(map[string]interface{}{
		"title":    "x",
		"priority": float64(4),
	})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for priority 4")
	}
}

func TestTaskFromArgsRejectsMalformedDate(t *testing.T) {
	_, errResult := taskFromArgs(map[string]interface{}{
		"title":   "x",
		"dueDate": "2025-03-15",
	})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for non-RFC3339 date")
	}
}

func TestTaskFromArgsOmittedDatesStayNil(t *testing.T) {
	task, errResult := taskFromArgs(map[string]interface{}{"title": "x"})
	if errResult != nil {
		t.Fatalf("unexpected error result: %+v", errResult)
	}
	if task.StartDate != nil || task.DueDate != nil {
		t.Errorf("dates should be nil when omitted: start=%v due=%v", task.StartDate, task.DueDate)
	}
}

func TestParseRFC3339(t *testing.T) {
	got, err := parseRFC3339("2025-06-01T00:00:00Z", "from")
	if err != nil {
		t.Fatalf("parseRFC3339: %v", err)
	}
	if !got.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}

	if _, err := parseRFC3339("", "from"); err == nil {
		t.Error("expected error for empty value")
	}
	if _, err := parseRFC3339(42, "to"); err == nil {
		t.Error("expected error for non-string value")
	}
}

func TestRegisterTaskTools(t *testing.T) {
	// Registration is exercised end to end by the serve command; here we only
	// pin the signature.
	_ = RegisterTaskTools
}
