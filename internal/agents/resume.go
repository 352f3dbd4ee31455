package agents

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/hirescreen/hirescreen/internal/ai"
	"github.com/hirescreen/hirescreen/internal/ats"
	"github.com/hirescreen/hirescreen/internal/logger"
)

//go:embed resume_prompt.md
var resumePromptTemplate string

// ResumeParser turns free-form resume text into a ParsedResume record.
type ResumeParser struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewResumeParser(generator ai.Generator, log *zap.Logger, maxLogLength int) *ResumeParser {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &ResumeParser{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Parse extracts a structured resume record from resume text. It always
// returns a usable record: on any unrecoverable failure the result is the
// empty resume, never an error.
func (p *ResumeParser) Parse(ctx context.Context, resumeText string) ats.ParsedResume {
	if strings.TrimSpace(resumeText) == "" {
		p.logger.Warn("resume text is empty, returning empty record")
		return ats.EmptyResume()
	}

	prompt := strings.ReplaceAll(resumePromptTemplate, "{{RESUME_TEXT}}", resumeText)

	p.logger.Debug("resume parse request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		p.logger.Warn("resume parse generation failed, returning empty record", zap.Error(err))
		return ats.EmptyResume()
	}

	p.logger.Debug("resume parse response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, p.maxLogLen)),
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		doc, ok := parseDocument(raw, attempt)
		if !ok {
			p.logger.Debug("resume response not parseable", zap.Int("attempt", attempt))
			continue
		}

		valid, violations := ats.ValidateResume(doc)
		if valid {
			return decodeResume(doc)
		}
		p.logger.Debug("resume record failed validation",
			zap.Int("attempt", attempt),
			zap.Strings("violations", violations),
		)

		salvaged := salvageResume(doc)
		if salvaged.HasContent() {
			p.logger.Info("resume record salvaged from invalid response", zap.Int("attempt", attempt))
			return salvaged
		}
	}

	p.logger.Warn("resume parse attempts exhausted, returning empty record")
	return ats.EmptyResume()
}

// decodeResume converts a validated loose document into the typed record.
// The JSON round trip keeps the flat-list skills handling in one place.
func decodeResume(doc map[string]any) ats.ParsedResume {
	resume := ats.EmptyResume()
	data, err := json.Marshal(doc)
	if err != nil {
		return resume
	}
	if err := json.Unmarshal(data, &resume); err != nil {
		return resume
	}
	resume.Normalize()
	return resume
}

// salvageResume copies every field from an invalid document that
// independently decodes into its typed shape, leaving the rest empty.
func salvageResume(doc map[string]any) ats.ParsedResume {
	out := ats.EmptyResume()

	if v, ok := doc["personal_info"].(map[string]any); ok {
		var info ats.PersonalInfo
		if err := mapstructure.Decode(v, &info); err == nil {
			out.PersonalInfo = info
		}
	}
	if s, ok := doc["summary"].(string); ok {
		out.Summary = strings.TrimSpace(s)
	}
	if v, ok := doc["education"].([]any); ok {
		var entries []ats.Education
		if err := mapstructure.Decode(v, &entries); err == nil && entries != nil {
			out.Education = entries
		}
	}
	if v, ok := doc["experience"].([]any); ok {
		var entries []ats.Experience
		if err := mapstructure.Decode(v, &entries); err == nil && entries != nil {
			out.Experience = entries
		}
	}
	switch skills := doc["skills"].(type) {
	case []any:
		if list, ok := coerceStringList(skills); ok {
			out.Skills.Technical = list
		}
	case map[string]any:
		var s ats.Skills
		if err := mapstructure.Decode(skills, &s); err == nil {
			out.Skills = s
		}
	}
	if v, ok := doc["certifications"].([]any); ok {
		var entries []ats.Certification
		if err := mapstructure.Decode(v, &entries); err == nil && entries != nil {
			out.Certifications = entries
		}
	}
	if v, ok := doc["projects"].([]any); ok {
		var entries []ats.Project
		if err := mapstructure.Decode(v, &entries); err == nil && entries != nil {
			out.Projects = entries
		}
	}

	out.Normalize()
	return out
}
