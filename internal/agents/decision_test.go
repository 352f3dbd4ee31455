package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hirescreen/hirescreen/internal/ats"
)

const validDecisionJSON = `{
	"decision": {"status": "PROCEED", "confidence_score": 85, "interview_stage": "TECHNICAL"},
	"rationale": {"key_strengths": ["Go expertise"], "concerns": ["No Rust"], "risk_factors": []},
	"recommendations": {"interview_focus": ["System design"], "skill_verification": [], "discussion_points": []},
	"hiring_manager_notes": {
		"salary_band_fit": "Within band",
		"growth_trajectory": "Senior track",
		"team_fit_considerations": "Good match",
		"onboarding_requirements": ["Standard onboarding"]
	},
	"next_steps": {"immediate_actions": ["Schedule interview"], "required_approvals": [], "timeline_recommendation": "Two weeks"}
}`

func TestDecisionGeneratorValidResponse(t *testing.T) {
	stub := &stubGenerator{response: validDecisionJSON}
	gen := NewDecisionGenerator(stub, zap.NewNop(), 0)

	decision := gen.Generate(context.Background(), testResume(), ats.DefaultMatchAnalysis(), "role")

	assert.Equal(t, ats.StatusProceed, decision.Decision.Status)
	assert.Equal(t, 85, decision.Decision.ConfidenceScore)
	assert.Equal(t, ats.StageTechnical, decision.Decision.InterviewStage)
	assert.Equal(t, []string{"Go expertise"}, decision.Rationale.KeyStrengths)
	assert.NotNil(t, decision.NextSteps.RequiredApprovals)
}

func TestDecisionGeneratorTransportFailureRetriesOnce(t *testing.T) {
	flaky := &flakyGenerator{failures: 1, response: validDecisionJSON}
	gen := NewDecisionGenerator(flaky, zap.NewNop(), 0)

	decision := gen.Generate(context.Background(), testResume(), ats.DefaultMatchAnalysis(), "role")

	assert.Equal(t, ats.StatusProceed, decision.Decision.Status)
	assert.Equal(t, 2, flaky.calls)
}

func TestDecisionGeneratorPersistentTransportFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	gen := NewDecisionGenerator(stub, zap.NewNop(), 0)

	decision := gen.Generate(context.Background(), testResume(), ats.DefaultMatchAnalysis(), "role")

	assert.Equal(t, ats.DefaultDecision(), decision)
	assert.Equal(t, 2, stub.calls)
}

func TestDecisionGeneratorGarbageResponse(t *testing.T) {
	stub := &stubGenerator{response: "not json at all"}
	gen := NewDecisionGenerator(stub, zap.NewNop(), 0)

	decision := gen.Generate(context.Background(), testResume(), ats.DefaultMatchAnalysis(), "role")

	assert.Equal(t, ats.DefaultDecision(), decision)
	assert.Contains(t, decision.Rationale.KeyStrengths, ats.SentinelProcessingError)
}

func TestSalvageDecisionKeepsValidFieldsDropsInvalid(t *testing.T) {
	doc := map[string]any{
		"decision": map[string]any{
			"status":           "PROCEED",
			"confidence_score": float64(150),
			"interview_stage":  "PHONE",
		},
		"rationale": map[string]any{
			"key_strengths": []any{"Strong Go background"},
			"concerns":      "not a list",
		},
		"next_steps": map[string]any{
			"timeline_recommendation": "One week",
		},
	}

	decision := salvageDecision(doc)

	assert.Equal(t, ats.StatusProceed, decision.Decision.Status)
	assert.Equal(t, 50, decision.Decision.ConfidenceScore, "out-of-range confidence falls back to default")
	assert.Equal(t, ats.StageScreening, decision.Decision.InterviewStage, "unknown stage falls back to default")
	assert.Equal(t, []string{"Strong Go background"}, decision.Rationale.KeyStrengths)
	assert.Equal(t, ats.DefaultDecision().Rationale.Concerns, decision.Rationale.Concerns)
	assert.Equal(t, "One week", decision.NextSteps.TimelineRecommendation)

	data := mustMarshalDoc(t, decision)
	valid, violations := ats.ValidateDecision(data)
	assert.True(t, valid, "violations: %v", violations)
}

func TestDecisionGeneratorSalvagesPartialResponse(t *testing.T) {
	stub := &stubGenerator{response: `{
		"decision": {"status": "REJECT", "confidence_score": 90, "interview_stage": "SKIP"},
		"rationale": {"key_strengths": [], "concerns": ["Missing core skills"], "risk_factors": []}
	}`}
	gen := NewDecisionGenerator(stub, zap.NewNop(), 0)

	decision := gen.Generate(context.Background(), testResume(), ats.DefaultMatchAnalysis(), "role")

	assert.Equal(t, ats.StatusReject, decision.Decision.Status)
	assert.Equal(t, 90, decision.Decision.ConfidenceScore)
	assert.Equal(t, ats.StageSkip, decision.Decision.InterviewStage)
	assert.Equal(t, []string{"Missing core skills"}, decision.Rationale.Concerns)
	assert.Equal(t, ats.DefaultDecision().Recommendations, decision.Recommendations)
}
