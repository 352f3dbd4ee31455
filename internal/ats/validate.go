package ats

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	resumeSchema   = mustCompile("schemas/resume.json")
	matchSchema    = mustCompile("schemas/match.json")
	decisionSchema = mustCompile("schemas/decision.json")
)

func mustCompile(path string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("ats: missing embedded schema %s: %v", path, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("ats: invalid embedded schema %s: %v", path, err))
	}
	return schema
}

// checkSchema validates a loose document against a compiled schema and
// returns the list of violated constraints. Validation is shallow: shape,
// types, enum membership and numeric ranges only. It never returns an error
// to the caller; an unevaluable document is simply invalid.
func checkSchema(schema *gojsonschema.Schema, doc any) (bool, []string) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return false, []string{fmt.Sprintf("document not evaluable: %v", err)}
	}
	if result.Valid() {
		return true, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violations = append(violations, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return false, violations
}

// ValidateResume checks a loose resume document. Beyond the shape check, an
// entirely empty record is invalid: at least one personal_info field, or one
// of education, experience, skills, projects, must carry data.
func ValidateResume(doc map[string]any) (bool, []string) {
	if doc == nil {
		return false, []string{"(root): document is null"}
	}
	if ok, violations := checkSchema(resumeSchema, doc); !ok {
		return false, violations
	}
	if resumeHasContent(doc) {
		return true, nil
	}
	return false, []string{"(root): record is entirely empty"}
}

func resumeHasContent(doc map[string]any) bool {
	if info, ok := doc["personal_info"].(map[string]any); ok {
		for _, v := range info {
			if s, ok := v.(string); ok && s != "" {
				return true
			}
		}
	}

	for _, key := range []string{"education", "experience", "projects"} {
		if list, ok := doc[key].([]any); ok && len(list) > 0 {
			return true
		}
	}

	switch skills := doc["skills"].(type) {
	case []any:
		return len(skills) > 0
	case map[string]any:
		for _, bucket := range []string{"technical", "soft"} {
			if list, ok := skills[bucket].([]any); ok && len(list) > 0 {
				return true
			}
		}
	}
	return false
}

// ValidateMatchPayload checks a loose match document against the external
// generation contract: all four analysis categories present, each with a
// 0-100 score and matches/gaps lists. Scores are validated on the 0-100
// scale, before the 0-1 rescale.
func ValidateMatchPayload(doc map[string]any) (bool, []string) {
	if doc == nil {
		return false, []string{"(root): document is null"}
	}
	return checkSchema(matchSchema, doc)
}

// ValidateDecision checks a loose decision document: all five sections
// present, status and interview_stage in their enums, confidence_score in
// [0,100], every list-typed field actually a list.
func ValidateDecision(doc map[string]any) (bool, []string) {
	if doc == nil {
		return false, []string{"(root): document is null"}
	}
	return checkSchema(decisionSchema, doc)
}
