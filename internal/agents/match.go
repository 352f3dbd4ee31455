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

//go:embed match_prompt.md
var matchPromptTemplate string

// JobMatcher scores a parsed resume against a job description.
type JobMatcher struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewJobMatcher(generator ai.Generator, log *zap.Logger, maxLogLength int) *JobMatcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &JobMatcher{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Match produces a MatchAnalysis for the candidate and job description. It
// always returns a usable record; failures yield the sentinel-valued
// default, never an error.
func (m *JobMatcher) Match(ctx context.Context, resume ats.ParsedResume, jobDescription string) ats.MatchAnalysis {
	candidateJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		m.logger.Warn("marshal candidate profile failed", zap.Error(err))
		return ats.DefaultMatchAnalysis()
	}

	prompt := strings.ReplaceAll(matchPromptTemplate, "{{CANDIDATE_JSON}}", string(candidateJSON))
	prompt = strings.ReplaceAll(prompt, "{{JOB_DESCRIPTION}}", jobDescription)

	m.logger.Debug("job match request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		m.logger.Warn("job match generation failed, returning default analysis", zap.Error(err))
		return ats.DefaultMatchAnalysis()
	}

	m.logger.Debug("job match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, m.maxLogLen)),
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		doc, ok := parseDocument(raw, attempt)
		if !ok {
			m.logger.Debug("match response not parseable", zap.Int("attempt", attempt))
			continue
		}

		valid, violations := ats.ValidateMatchPayload(doc)
		if !valid {
			m.logger.Debug("match payload failed validation",
				zap.Int("attempt", attempt),
				zap.Strings("violations", violations),
			)
			doc = salvageMatchPayload(doc)
			if valid, _ = ats.ValidateMatchPayload(doc); !valid {
				continue
			}
			m.logger.Info("match payload salvaged from invalid response", zap.Int("attempt", attempt))
		}

		return transformMatchPayload(doc)
	}

	m.logger.Warn("job match attempts exhausted, returning default analysis")
	return ats.DefaultMatchAnalysis()
}

// defaultMatchPayload is the salvage template on the external 0-100 scale.
func defaultMatchPayload() map[string]any {
	emptyCategory := func() map[string]any {
		return map[string]any{
			"score":   float64(0),
			"matches": []any{},
			"gaps":    []any{},
		}
	}
	return map[string]any{
		"match_score": float64(0),
		"analysis": map[string]any{
			"skills":     emptyCategory(),
			"experience": emptyCategory(),
			"education":  emptyCategory(),
			"additional": emptyCategory(),
		},
		"recommendation":          "",
		"key_strengths":           []any{},
		"areas_for_consideration": []any{},
	}
}

// salvageMatchPayload builds a default payload and copies over every part of
// the invalid document that independently passes its own checks.
func salvageMatchPayload(doc map[string]any) map[string]any {
	out := defaultMatchPayload()

	if score, ok := coerceFloat(doc["match_score"]); ok && score >= 0 && score <= 100 {
		out["match_score"] = score
	}
	if s, ok := doc["recommendation"].(string); ok {
		out["recommendation"] = s
	}
	if v, ok := doc["key_strengths"].([]any); ok {
		out["key_strengths"] = v
	}
	if v, ok := doc["areas_for_consideration"].([]any); ok {
		out["areas_for_consideration"] = v
	}

	analysis, ok := doc["analysis"].(map[string]any)
	if !ok {
		return out
	}
	outAnalysis := out["analysis"].(map[string]any)
	for _, key := range []string{"skills", "experience", "education", "additional"} {
		category, ok := analysis[key].(map[string]any)
		if !ok {
			continue
		}
		salvaged := outAnalysis[key].(map[string]any)
		if score, ok := coerceFloat(category["score"]); ok && score >= 0 && score <= 100 {
			salvaged["score"] = score
		}
		if v, ok := category["matches"].([]any); ok {
			salvaged["matches"] = v
		}
		if v, ok := category["gaps"].([]any); ok {
			salvaged["gaps"] = v
		}
	}
	return out
}

// transformMatchPayload converts a validated external payload into the
// internal record: 0-100 scores rescaled to 0.0-1.0 and per-category
// matches/gaps folded into prefixed detail lines.
func transformMatchPayload(doc map[string]any) ats.MatchAnalysis {
	score, _ := coerceFloat(doc["match_score"])
	analysis, _ := doc["analysis"].(map[string]any)

	out := ats.MatchAnalysis{
		OverallMatchScore: score / 100.0,
		SkillsMatch:       transformCategory(analysis["skills"]),
		ExperienceMatch:   transformCategory(analysis["experience"]),
		EducationMatch:    transformCategory(analysis["education"]),
		AdditionalMatch:   transformCategory(analysis["additional"]),
	}

	insights := []string{}
	if recommendation := coerceString(doc["recommendation"]); recommendation != "" {
		insights = append(insights, recommendation)
	}
	if strengths, ok := coerceStringList(doc["key_strengths"]); ok && len(strengths) > 0 {
		insights = append(insights, "Key Strengths:")
		for _, s := range strengths {
			insights = append(insights, "+ "+s)
		}
	}
	if considerations, ok := coerceStringList(doc["areas_for_consideration"]); ok && len(considerations) > 0 {
		insights = append(insights, "Areas for Consideration:")
		for _, a := range considerations {
			insights = append(insights, "- "+a)
		}
	}
	out.AdditionalInsights = insights

	out.Normalize()
	return out
}

func transformCategory(v any) ats.CategoryBreakdown {
	category, _ := v.(map[string]any)
	score, _ := coerceFloat(category["score"])
	matches, _ := coerceStringList(category["matches"])
	gaps, _ := coerceStringList(category["gaps"])

	return ats.CategoryBreakdown{
		Score:   score / 100.0,
		Details: combineMatchesGaps(matches, gaps),
	}
}

// combineMatchesGaps folds matched requirements and gaps into one detail
// list, matches prefixed "+ " and gaps prefixed "- ".
func combineMatchesGaps(matches, gaps []string) []string {
	details := []string{}
	if len(matches) > 0 {
		details = append(details, "Matches:")
		for _, m := range matches {
			details = append(details, "+ "+m)
		}
	}
	if len(gaps) > 0 {
		details = append(details, "Gaps:")
		for _, g := range gaps {
			details = append(details, "- "+g)
		}
	}
	if len(details) == 0 {
		return []string{"No specific details available"}
	}
	return details
}
