package tag_tools

import "testing"

func TestTagFromArgs(t *testing.T) {
	tag, errResult := tagFromArgs(map[string]interface{}{
		"name":   "deep-work",
		"color":  "#3876E4",
		"parent": "work",
	})
	if errResult != nil {
		t.Fatalf("unexpected error result: %+v", errResult)
	}
	if tag.Name != "deep-work" || tag.Color != "#3876E4" || tag.Parent != "work" {
		t.Errorf("unexpected tag: %+v", tag)
	}
}

func TestTagFromArgsRequiresName(t *testing.T) {
	_, errResult := tagFromArgs(map[string]interface{}{"color": "#3876E4"})
	if errResult == nil || !errResult.IsError {
		t.Fatal("expected error result for missing name")
	}
}

func TestRegisterTagTools(t *testing.T) {
	_ = RegisterTagTools
}
