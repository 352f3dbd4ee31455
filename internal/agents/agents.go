// Package agents implements the three pipeline stage agents: resume parsing,
// job matching and decision generation.
//
// Every agent follows the same contract: build a prompt, invoke the
// generation collaborator once, then run repair, parse, validate and salvage
// over the raw response for up to three attempts with progressively more
// aggressive repair. Public entry points always return a usable record of
// the stage's type. A transport-level failure of the collaborator skips
// repair entirely and yields the stage default.
package agents

import (
	"encoding/json"

	"github.com/hirescreen/hirescreen/internal/jsonrepair"
)

const (
	maxAttempts         = 3
	defaultMaxLogLength = 200
)

// repairLevel maps a retry attempt to the repair aggressiveness allowed on
// that attempt. The raw text is the same each time; only the repair budget
// grows.
func repairLevel(attempt int) jsonrepair.Level {
	switch {
	case attempt <= 1:
		return jsonrepair.LevelBasic
	case attempt == 2:
		return jsonrepair.LevelDeep
	default:
		return jsonrepair.LevelExtract
	}
}

// parseDocument runs one repair attempt and decodes the result into a loose
// document for validation.
func parseDocument(raw string, attempt int) (map[string]any, bool) {
	repaired, ok := jsonrepair.Repair(raw, repairLevel(attempt))
	if !ok {
		return nil, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(repaired), &doc); err != nil {
		return nil, false
	}
	return doc, true
}
