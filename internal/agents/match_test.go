package agents

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hirescreen/hirescreen/internal/ats"
)

const validMatchJSON = `{
	"match_score": 72,
	"analysis": {
		"skills": {"score": 80, "matches": ["Go experience"], "gaps": ["No Rust"]},
		"experience": {"score": 70, "matches": ["5 years backend"], "gaps": []},
		"education": {"score": 60, "matches": [], "gaps": []},
		"additional": {"score": 50, "matches": [], "gaps": []}
	},
	"recommendation": "Strong backend candidate",
	"key_strengths": ["Distributed systems"],
	"areas_for_consideration": ["Frontend exposure"]
}`

func testResume() ats.ParsedResume {
	r := ats.EmptyResume()
	r.PersonalInfo.Name = "Jane Doe"
	r.Skills.Technical = []string{"Go"}
	return r
}

func TestJobMatcherScoreConversion(t *testing.T) {
	stub := &stubGenerator{response: validMatchJSON}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	analysis := matcher.Match(context.Background(), testResume(), "Backend engineer role")

	assert.InDelta(t, 0.72, analysis.OverallMatchScore, 1e-9)
	assert.InDelta(t, 0.80, analysis.SkillsMatch.Score, 1e-9)
	assert.InDelta(t, 0.50, analysis.AdditionalMatch.Score, 1e-9)
}

func TestJobMatcherDetailPrefixes(t *testing.T) {
	stub := &stubGenerator{response: validMatchJSON}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	analysis := matcher.Match(context.Background(), testResume(), "Backend engineer role")

	assert.Equal(t, []string{"Matches:", "+ Go experience", "Gaps:", "- No Rust"}, analysis.SkillsMatch.Details)
	assert.Equal(t, []string{"No specific details available"}, analysis.EducationMatch.Details)
}

func TestJobMatcherInsights(t *testing.T) {
	stub := &stubGenerator{response: validMatchJSON}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	analysis := matcher.Match(context.Background(), testResume(), "Backend engineer role")

	assert.Equal(t, []string{
		"Strong backend candidate",
		"Key Strengths:",
		"+ Distributed systems",
		"Areas for Consideration:",
		"- Frontend exposure",
	}, analysis.AdditionalInsights)
}

func TestJobMatcherInsightsNeverEmpty(t *testing.T) {
	doc := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(validMatchJSON), &doc))
	doc["recommendation"] = ""
	doc["key_strengths"] = []any{}
	doc["areas_for_consideration"] = []any{}

	analysis := transformMatchPayload(doc)

	assert.Equal(t, []string{ats.SentinelNoInsights}, analysis.AdditionalInsights)
}

func TestJobMatcherPromptContainsInputs(t *testing.T) {
	stub := &stubGenerator{response: validMatchJSON}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	matcher.Match(context.Background(), testResume(), "Backend engineer role")

	assert.Contains(t, stub.lastPrompt, "Jane Doe")
	assert.Contains(t, stub.lastPrompt, "Backend engineer role")
}

func TestJobMatcherTransportFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	analysis := matcher.Match(context.Background(), testResume(), "role")

	assert.Equal(t, ats.DefaultMatchAnalysis(), analysis)
	assert.Equal(t, 1, stub.calls, "transport failure must not be retried")
}

func TestJobMatcherGarbageResponse(t *testing.T) {
	stub := &stubGenerator{response: "not json at all"}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	analysis := matcher.Match(context.Background(), testResume(), "role")

	assert.Equal(t, ats.DefaultMatchAnalysis(), analysis)
}

func TestSalvageMatchPayloadKeepsValidParts(t *testing.T) {
	doc := map[string]any{
		"match_score": float64(150),
		"analysis": map[string]any{
			"skills": map[string]any{"score": float64(80), "matches": []any{"Go"}, "gaps": []any{}},
			"experience": map[string]any{"score": float64(700), "matches": []any{}, "gaps": []any{}},
		},
		"recommendation": "Review manually",
	}

	out := salvageMatchPayload(doc)

	valid, violations := ats.ValidateMatchPayload(out)
	assert.True(t, valid, "violations: %v", violations)

	assert.Equal(t, float64(0), out["match_score"], "out-of-range score falls back to floor")
	assert.Equal(t, "Review manually", out["recommendation"])

	analysis := out["analysis"].(map[string]any)
	skills := analysis["skills"].(map[string]any)
	assert.Equal(t, float64(80), skills["score"])
	assert.Equal(t, []any{"Go"}, skills["matches"])

	experience := analysis["experience"].(map[string]any)
	assert.Equal(t, float64(0), experience["score"], "out-of-range category score falls back to floor")
}

func TestJobMatcherSalvagesPartialPayload(t *testing.T) {
	// Parses fine but misses the additional category and recommendation.
	stub := &stubGenerator{response: `{
		"match_score": 60,
		"analysis": {
			"skills": {"score": 60, "matches": ["Go"], "gaps": []},
			"experience": {"score": 60, "matches": [], "gaps": []},
			"education": {"score": 60, "matches": [], "gaps": []}
		},
		"key_strengths": ["Solid fundamentals"]
	}`}
	matcher := NewJobMatcher(stub, zap.NewNop(), 0)

	analysis := matcher.Match(context.Background(), testResume(), "role")

	assert.InDelta(t, 0.60, analysis.OverallMatchScore, 1e-9)
	assert.InDelta(t, 0.60, analysis.SkillsMatch.Score, 1e-9)
	assert.Zero(t, analysis.AdditionalMatch.Score)
	assert.Contains(t, analysis.AdditionalInsights, "+ Solid fundamentals")
}
