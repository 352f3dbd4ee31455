package agents

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/hirescreen/hirescreen/internal/ai"
	"github.com/hirescreen/hirescreen/internal/ats"
	"github.com/hirescreen/hirescreen/internal/logger"
)

//go:embed decision_prompt.md
var decisionPromptTemplate string

// DecisionGenerator turns a parsed resume and match analysis into a hiring
// recommendation.
type DecisionGenerator struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewDecisionGenerator(generator ai.Generator, log *zap.Logger, maxLogLength int) *DecisionGenerator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &DecisionGenerator{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Generate produces a DecisionFeedback record. It always returns a usable
// record; failures yield the sentinel-valued default, never an error. A
// transport-level failure of the collaborator is retried once before giving
// up, since the decision stage sits at the end of the pipeline and a rerun
// discards two completed stages.
func (g *DecisionGenerator) Generate(ctx context.Context, resume ats.ParsedResume, match ats.MatchAnalysis, jobDescription string) ats.DecisionFeedback {
	candidateJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		g.logger.Warn("marshal candidate profile failed", zap.Error(err))
		return ats.DefaultDecision()
	}
	matchJSON, err := json.MarshalIndent(match, "", "  ")
	if err != nil {
		g.logger.Warn("marshal match analysis failed", zap.Error(err))
		return ats.DefaultDecision()
	}

	prompt := strings.ReplaceAll(decisionPromptTemplate, "{{CANDIDATE_JSON}}", string(candidateJSON))
	prompt = strings.ReplaceAll(prompt, "{{MATCH_JSON}}", string(matchJSON))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", jobDescription)

	g.logger.Debug("decision request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		g.logger.Warn("decision generation failed, retrying once", zap.Error(err))
		raw, err = g.generator.GenerateContent(ctx, prompt)
		if err != nil {
			g.logger.Warn("decision generation retry failed, returning default decision", zap.Error(err))
			return ats.DefaultDecision()
		}
	}

	g.logger.Debug("decision response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, g.maxLogLen)),
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		doc, ok := parseDocument(raw, attempt)
		if !ok {
			g.logger.Debug("decision response not parseable", zap.Int("attempt", attempt))
			continue
		}

		valid, violations := ats.ValidateDecision(doc)
		if valid {
			if decision, ok := decodeDecision(doc); ok {
				return decision
			}
		}
		g.logger.Debug("decision record failed validation",
			zap.Int("attempt", attempt),
			zap.Strings("violations", violations),
		)

		g.logger.Info("decision record salvaged from invalid response", zap.Int("attempt", attempt))
		return salvageDecision(doc)
	}

	g.logger.Warn("decision attempts exhausted, returning default decision")
	return ats.DefaultDecision()
}

// decodeDecision converts a validated loose document into the typed record.
func decodeDecision(doc map[string]any) (ats.DecisionFeedback, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return ats.DecisionFeedback{}, false
	}
	var decision ats.DecisionFeedback
	if err := json.Unmarshal(data, &decision); err != nil {
		return ats.DecisionFeedback{}, false
	}
	decision.Normalize()
	return decision, true
}

// salvageDecision builds a default decision and copies over every field from
// the invalid document that independently passes its own type and enum
// check. An out-of-range confidence score keeps the default mid-scale value.
func salvageDecision(doc map[string]any) ats.DecisionFeedback {
	out := ats.DefaultDecision()

	if section, ok := doc["decision"].(map[string]any); ok {
		if s, ok := section["status"].(string); ok && ats.ValidStatus(s) {
			out.Decision.Status = s
		}
		if score, ok := coerceFloat(section["confidence_score"]); ok && score >= 0 && score <= 100 {
			out.Decision.ConfidenceScore = int(score)
		}
		if s, ok := section["interview_stage"].(string); ok && ats.ValidInterviewStage(s) {
			out.Decision.InterviewStage = s
		}
	}

	if section, ok := doc["rationale"].(map[string]any); ok {
		copyStringList(section, "key_strengths", &out.Rationale.KeyStrengths)
		copyStringList(section, "concerns", &out.Rationale.Concerns)
		copyStringList(section, "risk_factors", &out.Rationale.RiskFactors)
	}
	if section, ok := doc["recommendations"].(map[string]any); ok {
		copyStringList(section, "interview_focus", &out.Recommendations.InterviewFocus)
		copyStringList(section, "skill_verification", &out.Recommendations.SkillVerification)
		copyStringList(section, "discussion_points", &out.Recommendations.DiscussionPoints)
	}
	if section, ok := doc["hiring_manager_notes"].(map[string]any); ok {
		copyString(section, "salary_band_fit", &out.HiringManagerNotes.SalaryBandFit)
		copyString(section, "growth_trajectory", &out.HiringManagerNotes.GrowthTrajectory)
		copyString(section, "team_fit_considerations", &out.HiringManagerNotes.TeamFitConsiderations)
		copyStringList(section, "onboarding_requirements", &out.HiringManagerNotes.OnboardingRequirements)
	}
	if section, ok := doc["next_steps"].(map[string]any); ok {
		copyStringList(section, "immediate_actions", &out.NextSteps.ImmediateActions)
		copyStringList(section, "required_approvals", &out.NextSteps.RequiredApprovals)
		copyString(section, "timeline_recommendation", &out.NextSteps.TimelineRecommendation)
	}

	return out
}

func copyString(section map[string]any, key string, dst *string) {
	if s, ok := section[key].(string); ok && strings.TrimSpace(s) != "" {
		*dst = s
	}
}

func copyStringList(section map[string]any, key string, dst *[]string) {
	if list, ok := coerceStringList(section[key]); ok && len(list) > 0 {
		*dst = list
	}
}
