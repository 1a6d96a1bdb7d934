package assetmanager_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/the-ledger/ledger/pkg/agents/assetmanager"
	"github.com/the-ledger/ledger/pkg/agents/dbmanager"
)

func TestSystemPromptPolicy(t *testing.T) {
	prompt := assetmanager.SystemPrompt()

	t.Run("mandates delegation for data questions", func(t *testing.T) {
		gt.S(t, prompt).Contains(dbmanager.ToolName)
		gt.S(t, prompt).Contains("MANDATORY")
	})

	t.Run("closes farewells without a follow-up question", func(t *testing.T) {
		gt.S(t, prompt).Contains("do NOT append a follow-up question")
	})

	t.Run("forbids revealing internals", func(t *testing.T) {
		gt.S(t, prompt).Contains("Do not leak internal details")
	})
}
