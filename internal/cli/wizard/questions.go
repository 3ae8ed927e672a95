package wizard

import (
	"github.com/multi-llm/bootstrap/internal/config"
	"github.com/multi-llm/bootstrap/internal/core/workspace"
	"github.com/multi-llm/bootstrap/pkg/models"
)

// DefaultName is the suggested workspace name when the user has no
// preference.
const DefaultName = "gemini_workspace"

// DefaultQuestions returns the create-flow questions in order: tier,
// name, provider, git. Team defaults from cfg pre-select answers.
// providerOpts comes from the provider registry so the choices stay in
// sync with the build; the git question only appears when a system git
// is available.
func DefaultQuestions(cfg *config.Config, providerOpts []Option, gitAvailable bool) []Question {
	tierDefault := string(models.TierStandard)
	providerDefault := ""
	gitDefault := "false"
	if cfg != nil {
		if cfg.HasTier() {
			tierDefault = string(cfg.DefaultTier)
		}
		if cfg.HasProvider() {
			providerDefault = cfg.DefaultProvider
		}
		if cfg.DefaultGit {
			gitDefault = "true"
		}
	}
	if providerDefault == "" && len(providerOpts) > 0 {
		providerDefault = providerOpts[0].Value
	}

	tierOpts := make([]Option, 0, len(models.ValidTiers()))
	for _, t := range models.ValidTiers() {
		tierOpts = append(tierOpts, Option{Label: t.Name(), Value: string(t), Desc: t.Desc()})
	}

	return []Question{
		{
			ID:          "tier",
			Type:        QuestionTypeSelect,
			Title:       "Select workspace tier",
			Description: "Pick the structure that matches how the workspace will grow. Upgrades are always possible later.",
			Options:     tierOpts,
			Default:     tierDefault,
			Required:    true,
		},
		{
			ID:          "name",
			Type:        QuestionTypeInput,
			Title:       "Enter workspace name",
			Description: "Letters, digits, '-' and '_'; must start with a letter.",
			Default:     DefaultName,
			Required:    true,
			Validate:    workspace.ValidateName,
		},
		{
			ID:          "provider",
			Type:        QuestionTypeSelect,
			Title:       "Select assistant provider",
			Description: "Determines the constitution filename and config directory.",
			Options:     providerOpts,
			Default:     providerDefault,
			Required:    true,
		},
		{
			ID:          "git",
			Type:        QuestionTypeSelect,
			Title:       "Initialize a git repository?",
			Description: "Runs git init after the workspace is created.",
			Options: []Option{
				{Label: "No", Value: "false", Desc: "Skip repository setup"},
				{Label: "Yes", Value: "true", Desc: "Run git init in the new workspace"},
			},
			Default:  gitDefault,
			Required: true,
			Condition: func(*Result) bool {
				return gitAvailable
			},
		},
	}
}
