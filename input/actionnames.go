package input

import (
	"sort"
	"strings"

	"github.com/lixenwraith/clipdeck/trigger"
)

// actionRegistry maps canonical action names to KeyEntry structs
// Used by the key config loader to resolve action strings to bindings
var actionRegistry map[string]KeyEntry

func init() {
	actionRegistry = buildActionRegistry()
}

func buildActionRegistry() map[string]KeyEntry {
	reg := map[string]KeyEntry{
		// Unbind sentinel
		"none": {},

		"quit":         {Intent: IntentQuit},
		"escape":       {Intent: IntentEscape},
		"select_up":    {Intent: IntentSelectUp},
		"select_down":  {Intent: IntentSelectDown},
		"preview":      {Intent: IntentPreview},
		"toggle_pause": {Intent: IntentTogglePause},
		"stop":         {Intent: IntentStop},
		"map":          {Intent: IntentMapMode},
		"clear":        {Intent: IntentClearMode},
		"rename":       {Intent: IntentRename},
		"delete":       {Intent: IntentDelete},
		"import":       {Intent: IntentImport},
		"toggle_sim":   {Intent: IntentToggleSim},
	}

	// fire_b1_short .. fire_b3_double
	for _, t := range trigger.All() {
		reg[FireActionName(t.Key())] = fire(t.Key())
	}
	return reg
}

// FireActionName is the config name of the action that fires k
func FireActionName(k trigger.Key) string {
	return "fire_" + strings.ReplaceAll(string(k), "-", "_")
}

// ActionEntry resolves a canonical action name to its KeyEntry
// Returns zero KeyEntry and false if name is unknown
func ActionEntry(name string) (KeyEntry, bool) {
	entry, ok := actionRegistry[name]
	return entry, ok
}

// IsActionName returns true if name is a registered action
func IsActionName(name string) bool {
	_, ok := actionRegistry[name]
	return ok
}

// ActionNames returns all registered action names in sorted order
func ActionNames() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
