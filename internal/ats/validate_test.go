package ats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromJSON(t *testing.T, text string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &doc))
	return doc
}

func validMatchDoc(t *testing.T) map[string]any {
	return docFromJSON(t, `{
		"match_score": 72,
		"analysis": {
			"skills": {"score": 80, "matches": ["Go"], "gaps": ["Rust"]},
			"experience": {"score": 70, "matches": [], "gaps": []},
			"education": {"score": 60, "matches": [], "gaps": []},
			"additional": {"score": 50, "matches": [], "gaps": []}
		},
		"recommendation": "Strong candidate",
		"key_strengths": ["Backend depth"],
		"areas_for_consideration": ["Limited frontend work"]
	}`)
}

func validDecisionDoc(t *testing.T) map[string]any {
	return docFromJSON(t, `{
		"decision": {"status": "PROCEED", "confidence_score": 85, "interview_stage": "TECHNICAL"},
		"rationale": {"key_strengths": ["Go expertise"], "concerns": [], "risk_factors": []},
		"recommendations": {"interview_focus": ["System design"], "skill_verification": [], "discussion_points": []},
		"hiring_manager_notes": {
			"salary_band_fit": "Within band",
			"growth_trajectory": "Senior track",
			"team_fit_considerations": "Good match",
			"onboarding_requirements": []
		},
		"next_steps": {"immediate_actions": ["Schedule interview"], "required_approvals": [], "timeline_recommendation": "Two weeks"}
	}`)
}

func TestValidateResumeAcceptsPartialRecord(t *testing.T) {
	doc := docFromJSON(t, `{
		"personal_info": {"name": "Jane Doe", "email": "", "phone": "", "location": ""},
		"summary": "",
		"education": [],
		"experience": [],
		"skills": {"technical": [], "soft": []},
		"certifications": [],
		"projects": []
	}`)

	ok, violations := ValidateResume(doc)
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestValidateResumeRejectsEmptyRecord(t *testing.T) {
	doc := docFromJSON(t, `{
		"personal_info": {"name": "", "email": "", "phone": "", "location": ""},
		"summary": "",
		"education": [],
		"experience": [],
		"skills": {"technical": [], "soft": []},
		"certifications": [],
		"projects": []
	}`)

	ok, violations := ValidateResume(doc)
	assert.False(t, ok)
	assert.NotEmpty(t, violations)
}

func TestValidateResumeAcceptsFlatSkillList(t *testing.T) {
	doc := docFromJSON(t, `{"skills": ["Go", "SQL"]}`)

	ok, _ := ValidateResume(doc)
	assert.True(t, ok)
}

func TestValidateMatchPayload(t *testing.T) {
	ok, violations := ValidateMatchPayload(validMatchDoc(t))
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestValidateMatchPayloadRejectsMissingCategory(t *testing.T) {
	doc := validMatchDoc(t)
	delete(doc["analysis"].(map[string]any), "additional")

	ok, violations := ValidateMatchPayload(doc)
	assert.False(t, ok)
	assert.NotEmpty(t, violations)
}

func TestValidateMatchPayloadRejectsOutOfRangeScore(t *testing.T) {
	doc := validMatchDoc(t)
	doc["analysis"].(map[string]any)["skills"].(map[string]any)["score"] = 150

	ok, _ := ValidateMatchPayload(doc)
	assert.False(t, ok)
}

func TestValidateDecision(t *testing.T) {
	ok, violations := ValidateDecision(validDecisionDoc(t))
	assert.True(t, ok)
	assert.Empty(t, violations)
}

func TestValidateDecisionRejectsMissingRationale(t *testing.T) {
	doc := validDecisionDoc(t)
	delete(doc, "rationale")

	ok, violations := ValidateDecision(doc)
	assert.False(t, ok)
	assert.NotEmpty(t, violations)
}

func TestValidateDecisionRejectsUnknownStatus(t *testing.T) {
	doc := validDecisionDoc(t)
	doc["decision"].(map[string]any)["status"] = "MAYBE"

	ok, _ := ValidateDecision(doc)
	assert.False(t, ok)
}

func TestValidateDecisionRejectsOutOfRangeConfidence(t *testing.T) {
	doc := validDecisionDoc(t)
	doc["decision"].(map[string]any)["confidence_score"] = 150

	ok, _ := ValidateDecision(doc)
	assert.False(t, ok)
}

func TestValidateDecisionRejectsNonListField(t *testing.T) {
	doc := validDecisionDoc(t)
	doc["rationale"].(map[string]any)["concerns"] = "not a list"

	ok, _ := ValidateDecision(doc)
	assert.False(t, ok)
}

func TestValidateNilDocuments(t *testing.T) {
	for _, validate := range []func(map[string]any) (bool, []string){ValidateResume, ValidateMatchPayload, ValidateDecision} {
		ok, violations := validate(nil)
		assert.False(t, ok)
		assert.NotEmpty(t, violations)
	}
}
