package project_tools

import (
	"testing"

	"github.com/avandorp/ticktick-mcp/internal/ticktick"
)

func TestProjectFromArgs(t *testing.T) {
	project, errResult := projectFromArgs(map[string]interface{}{
		"name":     "Reading",
		"color":    "#F18181",
		"viewMode": "kanban",
		"kind":     "NOTE",
	})
	if errResult != nil {
		t.Fatalf("unexpected error result: %+v", errResult)
	}
	if project.Name != "Reading" || project.Color != "#F18181" {
		t.Errorf("unexpected project: %+v", project)
	}
	if project.ViewMode != ticktick.ViewModeKanban {
		t.Errorf("viewMode = %q", project.ViewMode)
	}
	if project.Kind != ticktick.ProjectKindNote {
		t.Errorf("kind = %q", project.Kind)
	}
}

func TestProjectFromArgsRequiresName(t *testing.T) {
	_, errResult := projectFromArgs(map[string]interface{}{"color": "#F18181"})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for missing name")
	}
}

func TestProjectFromArgsRejectsUnknownViewMode(t *testing.T) {
	_, errResult := projectFromArgs(map[string]interface{}{
		"name":     "x",
		"viewMode": "gantt",
	})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for unknown view mode")
	}
}

func TestProjectFromArgsRejectsUnknownKind(t *testing.T) {
	_, errResult := projectFromArgs(map[string]interface{}{
		"name": "x",
		"kind": "JOURNAL",
	})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for unknown kind")
	}
}

func TestProjectFromArgsOmittedEnumsStayZero(t *testing.T) {
	project, errResult := projectFromArgs(map[string]interface{}{"name": "x"})
	if errResult != nil {
		t.Fatalf("unexpected error result: %+v", errResult)
	}
	if project.ViewMode != "" || project.Kind != "" {
		t.Errorf("enums should stay zero when omitted: %+v", project)
	}
}

func TestRegisterProjectTools(t *testing.T) {
	_ = RegisterProjectTools
}
