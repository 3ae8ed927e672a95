package wizard

import (
	"errors"
	"testing"

	"github.com/multi-llm/bootstrap/internal/config"
	"github.com/multi-llm/bootstrap/pkg/models"
)

func testProviderOptions() []Option {
	return []Option{
		{Label: "Gemini", Value: "gemini", Desc: "GEMINI.md / .gemini"},
		{Label: "Claude", Value: "claude", Desc: "CLAUDE.md / .claude"},
		{Label: "Codex", Value: "codex", Desc: "AGENTS.md / .codex"},
	}
}

func questionByID(t *testing.T, questions []Question, id string) *Question {
	t.Helper()
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i]
		}
	}
	t.Fatalf("question %q not found", id)
	return nil
}

func TestDefaultQuestionsOrder(t *testing.T) {
	questions := DefaultQuestions(nil, testProviderOptions(), true)

	want := []string{"tier", "name", "provider", "git"}
	if len(questions) != len(want) {
		t.Fatalf("len(questions) = %d, want %d", len(questions), len(want))
	}
	for i, id := range want {
		if questions[i].ID != id {
			t.Errorf("questions[%d].ID = %q, want %q", i, questions[i].ID, id)
		}
	}

	tier := questionByID(t, questions, "tier")
	if len(tier.Options) != 3 {
		t.Errorf("tier options = %d, want 3", len(tier.Options))
	}
	if tier.Default != string(models.TierStandard) {
		t.Errorf("tier default = %q, want %q", tier.Default, models.TierStandard)
	}

	name := questionByID(t, questions, "name")
	if name.Default != DefaultName {
		t.Errorf("name default = %q, want %q", name.Default, DefaultName)
	}
}

func TestDefaultQuestionsTeamDefaults(t *testing.T) {
	cfg := &config.Config{
		DefaultTier:     models.TierEnterprise,
		DefaultProvider: "claude",
		DefaultGit:      true,
	}
	questions := DefaultQuestions(cfg, testProviderOptions(), true)

	if got := questionByID(t, questions, "tier").Default; got != "3" {
		t.Errorf("tier default = %q, want %q", got, "3")
	}
	if got := questionByID(t, questions, "provider").Default; got != "claude" {
		t.Errorf("provider default = %q, want %q", got, "claude")
	}
	if got := questionByID(t, questions, "git").Default; got != "true" {
		t.Errorf("git default = %q, want %q", got, "true")
	}
}

func TestDefaultQuestionsProviderFallback(t *testing.T) {
	questions := DefaultQuestions(nil, testProviderOptions(), true)

	if got := questionByID(t, questions, "provider").Default; got != "gemini" {
		t.Errorf("provider default = %q, want first registry option %q", got, "gemini")
	}
}

func TestDefaultQuestionsGitCondition(t *testing.T) {
	withGit := questionByID(t, DefaultQuestions(nil, testProviderOptions(), true), "git")
	if withGit.Condition == nil || !withGit.Condition(&Result{}) {
		t.Error("git question should be shown when git is available")
	}

	withoutGit := questionByID(t, DefaultQuestions(nil, testProviderOptions(), false), "git")
	if withoutGit.Condition(&Result{}) {
		t.Error("git question should be hidden when git is unavailable")
	}
}

func TestNameQuestionValidation(t *testing.T) {
	name := questionByID(t, DefaultQuestions(nil, testProviderOptions(), true), "name")
	if name.Validate == nil {
		t.Fatal("name question has no validator")
	}

	if err := name.Validate("demo_app"); err != nil {
		t.Errorf("Validate(demo_app) = %v, want nil", err)
	}
	if err := name.Validate("1bad"); err == nil {
		t.Error("Validate(1bad) should fail: names must start with a letter")
	}
	if err := name.Validate("test"); err == nil {
		t.Error("Validate(test) should fail: reserved name")
	}
}

func TestSaveAnswer(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		value string
		check func(*Result) bool
	}{
		{"name", "name", "demo_app", func(r *Result) bool { return r.Name == "demo_app" }},
		{"tier", "tier", "2", func(r *Result) bool { return r.Tier == models.TierStandard }},
		{"provider", "provider", "codex", func(r *Result) bool { return r.Provider == "codex" }},
		{"git_true", "git", "true", func(r *Result) bool { return r.Git }},
		{"git_false", "git", "false", func(r *Result) bool { return !r.Git }},
		{"unknown_id_ignored", "locale", "en", func(r *Result) bool { return *r == Result{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{}
			saveAnswer(tt.id, tt.value, result)
			if !tt.check(result) {
				t.Errorf("saveAnswer(%q, %q) produced %+v", tt.id, tt.value, result)
			}
		})
	}
}

func TestRunWithoutQuestions(t *testing.T) {
	if _, err := Run(nil); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Run(nil) = %v, want ErrNoQuestions", err)
	}
}
