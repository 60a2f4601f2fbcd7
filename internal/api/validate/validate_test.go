package validate

import (
	"strings"
	"testing"

	"github.com/ryan-kosiba/nutriclaude/internal/services"
)

func TestUserID(t *testing.T) {
	for _, ok := range []string{"u1", "123456789", "ryan_k", "a-b"} {
		if err := UserID(ok); err != nil {
			t.Fatalf("UserID(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "has space", "semi;colon", strings.Repeat("a", 65)} {
		if err := UserID(bad); err == nil {
			t.Fatalf("UserID(%q) expected error", bad)
		}
	}
}

func TestID(t *testing.T) {
	if err := ID("pendingId", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"); err != nil {
		t.Fatalf("valid uuid rejected: %v", err)
	}
	if err := ID("pendingId", "nope"); err == nil {
		t.Fatalf("expected error for non-uuid")
	}
}

func TestMessage(t *testing.T) {
	if err := Message("", "chat"); err == nil {
		t.Fatalf("expected error for empty text")
	}
	if err := Message(strings.Repeat("x", MaxMessageChars+1), ""); err == nil {
		t.Fatalf("expected error for long text")
	}
	if err := Message("had oatmeal", "chat-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGoals(t *testing.T) {
	neg := -1
	zero := 0.0
	inches := 12.0
	if err := Goals(services.GoalsView{DailyCalories: &neg}); err == nil {
		t.Fatalf("expected error for negative calories")
	}
	if err := Goals(services.GoalsView{TargetWeightLbs: &zero}); err == nil {
		t.Fatalf("expected error for zero target weight")
	}
	if err := Goals(services.GoalsView{HeightInches: &inches}); err == nil {
		t.Fatalf("expected error for 12 inches")
	}
	if err := Goals(services.GoalsView{}); err != nil {
		t.Fatalf("empty goals rejected: %v", err)
	}
}
