package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestProjectRootID(t *testing.T) {
	root := Project{ID: uuid.New()}
	if root.RootID() != root.ID {
		t.Fatalf("root RootID() = %s, want own id %s", root.RootID(), root.ID)
	}

	child := Project{ID: uuid.New(), ParentProjectID: &root.ID}
	if child.RootID() != root.ID {
		t.Fatalf("child RootID() = %s, want %s", child.RootID(), root.ID)
	}
}

func TestProjectIsDone(t *testing.T) {
	p := Project{Status: StatusDraft}
	if p.IsDone() {
		t.Fatal("draft project reported done")
	}
	p.Status = StatusDone
	if !p.IsDone() {
		t.Fatal("done project not reported done")
	}
}

func TestAssignIDKeepsExisting(t *testing.T) {
	id := uuid.New()
	got := id
	assignID(&got)
	if got != id {
		t.Fatalf("assignID replaced existing id")
	}

	var empty uuid.UUID
	assignID(&empty)
	if empty == uuid.Nil {
		t.Fatal("assignID left nil id")
	}
}

func TestAllModels_Count(t *testing.T) {
	if n := len(AllModels()); n != 9 {
		t.Errorf("AllModels() returned %d models, want 9", n)
	}
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"functional", FunctionalRequirements{}.TableName(), "functional_requirements"},
		{"design", DesignRequirements{}.TableName(), "design_requirements"},
		{"tabs", DashboardTab{}.TableName(), "dashboard_tabs"},
		{"history", ChangeHistory{}.TableName(), "change_history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("TableName() = %q, want %q", tt.got, tt.want)
			}
		})
	}
}
