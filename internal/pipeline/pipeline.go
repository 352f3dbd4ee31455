// Package pipeline sequences the three stage agents and aggregates their
// records into a report-ready bundle.
package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hirescreen/hirescreen/internal/agents"
	"github.com/hirescreen/hirescreen/internal/ai"
	"github.com/hirescreen/hirescreen/internal/ats"
)

// Result is the final bundle of one pipeline run: the three stage records
// plus the original job description and derived candidate metadata.
type Result struct {
	RunID           string               `json:"run_id"`
	CreatedAt       time.Time            `json:"created_at"`
	Model           string               `json:"model"`
	ExperienceLevel string               `json:"experience_level"`
	JobDescription  string               `json:"job_description"`
	Resume          ats.ParsedResume     `json:"resume"`
	Match           ats.MatchAnalysis    `json:"match_analysis"`
	Decision        ats.DecisionFeedback `json:"decision_feedback"`
}

// Pipeline runs resume parsing, job matching and decision generation in
// order, each stage consuming the previous stage's validated record.
type Pipeline struct {
	generator ai.Generator
	parser    *agents.ResumeParser
	matcher   *agents.JobMatcher
	decider   *agents.DecisionGenerator
	logger    *zap.Logger
}

func New(generator ai.Generator, log *zap.Logger, maxLogLength int) *Pipeline {
	return &Pipeline{
		generator: generator,
		parser:    agents.NewResumeParser(generator, log, maxLogLength),
		matcher:   agents.NewJobMatcher(generator, log, maxLogLength),
		decider:   agents.NewDecisionGenerator(generator, log, maxLogLength),
		logger:    log,
	}
}

// Run executes the pipeline on resume text and an optional job description.
// With no job description it short-circuits after resume parsing and fills
// the matching and decision records with explicit "not requested" values.
// Run never fails: every record in the result is usable.
//
// Stages run strictly sequentially. Cancellation is honored between stages
// only; a stage that has started always runs to completion.
func (p *Pipeline) Run(ctx context.Context, resumeText, jobDescription string) *Result {
	result := &Result{
		RunID:          uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Model:          p.generator.Model(),
		JobDescription: jobDescription,
		Match:          ats.SkippedMatchAnalysis(),
		Decision:       ats.SkippedDecision(),
	}

	log := p.logger.With(zap.String("run_id", result.RunID))
	log.Info("pipeline run started", zap.Bool("job_description_supplied", strings.TrimSpace(jobDescription) != ""))

	result.Resume = p.parser.Parse(ctx, resumeText)
	result.ExperienceLevel = ExperienceLevel(TotalExperienceYears(result.Resume))
	log.Info("resume parsed",
		zap.Bool("has_content", result.Resume.HasContent()),
		zap.String("experience_level", result.ExperienceLevel),
	)

	if strings.TrimSpace(jobDescription) == "" {
		log.Info("no job description supplied, skipping matching and decision stages")
		return result
	}
	if ctx.Err() != nil {
		log.Warn("pipeline abandoned after resume parsing", zap.Error(ctx.Err()))
		return result
	}

	result.Match = p.matcher.Match(ctx, result.Resume, jobDescription)
	log.Info("job match analyzed", zap.Float64("overall_match_score", result.Match.OverallMatchScore))

	if ctx.Err() != nil {
		log.Warn("pipeline abandoned after job matching", zap.Error(ctx.Err()))
		return result
	}

	result.Decision = p.decider.Generate(ctx, result.Resume, result.Match, jobDescription)
	log.Info("decision generated",
		zap.String("status", result.Decision.Decision.Status),
		zap.Int("confidence_score", result.Decision.Decision.ConfidenceScore),
		zap.String("interview_stage", result.Decision.Decision.InterviewStage),
	)

	return result
}

// TotalExperienceYears sums the leading numeric token of each experience
// entry's duration. Entries whose duration does not start with a number
// contribute zero.
func TotalExperienceYears(resume ats.ParsedResume) float64 {
	var total float64
	for _, exp := range resume.Experience {
		fields := strings.Fields(exp.Duration)
		if len(fields) == 0 {
			continue
		}
		years, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		total += years
	}
	return total
}

// ExperienceLevel buckets total years of experience: junior below 2, mid
// below 5, senior from 5 up.
func ExperienceLevel(years float64) string {
	switch {
	case years < 2:
		return ats.LevelJunior
	case years < 5:
		return ats.LevelMid
	default:
		return ats.LevelSenior
	}
}
