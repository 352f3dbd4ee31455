// Package ats defines the structured records exchanged between pipeline
// stages and the validation and fallback contract around them.
//
// Field names and enum values are the wire contract external consumers match
// against, so JSON tags here are load-bearing. Records are built once per
// pipeline run and treated as immutable after validation.
package ats

import "encoding/json"

// Decision status values.
const (
	StatusProceed = "PROCEED"
	StatusHold    = "HOLD"
	StatusReject  = "REJECT"
)

// Interview stage values.
const (
	StageSkip      = "SKIP"
	StageScreening = "SCREENING"
	StageTechnical = "TECHNICAL"
	StageFullLoop  = "FULL_LOOP"
)

// Experience level buckets derived from total years of experience.
const (
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

// PersonalInfo holds candidate contact details. Absent values are empty
// strings, never omitted.
type PersonalInfo struct {
	Name     string `json:"name" mapstructure:"name"`
	Email    string `json:"email" mapstructure:"email"`
	Phone    string `json:"phone" mapstructure:"phone"`
	Location string `json:"location" mapstructure:"location"`
}

// Any reports whether at least one contact field is filled in.
func (p PersonalInfo) Any() bool {
	return p.Name != "" || p.Email != "" || p.Phone != "" || p.Location != ""
}

type Education struct {
	Institution    string `json:"institution" mapstructure:"institution"`
	Degree         string `json:"degree" mapstructure:"degree"`
	Field          string `json:"field" mapstructure:"field"`
	GraduationDate string `json:"graduation_date" mapstructure:"graduation_date"`
	GPA            string `json:"gpa" mapstructure:"gpa"`
}

type Experience struct {
	Company          string   `json:"company" mapstructure:"company"`
	Title            string   `json:"title" mapstructure:"title"`
	Location         string   `json:"location" mapstructure:"location"`
	StartDate        string   `json:"start_date" mapstructure:"start_date"`
	EndDate          string   `json:"end_date" mapstructure:"end_date"`
	Duration         string   `json:"duration" mapstructure:"duration"`
	Responsibilities []string `json:"responsibilities" mapstructure:"responsibilities"`
	Achievements     []string `json:"achievements" mapstructure:"achievements"`
}

// Skills carries technical and soft skills separately. Generated output
// sometimes emits a flat list instead of the two-bucket object; a flat list
// decodes into Technical.
type Skills struct {
	Technical []string `json:"technical" mapstructure:"technical"`
	Soft      []string `json:"soft" mapstructure:"soft"`
}

func (s *Skills) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err == nil {
		s.Technical = flat
		s.Soft = []string{}
		return nil
	}

	type skillsObject Skills
	var obj skillsObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = Skills(obj)
	return nil
}

// Any reports whether either skill bucket is non-empty.
func (s Skills) Any() bool {
	return len(s.Technical) > 0 || len(s.Soft) > 0
}

type Certification struct {
	Name   string `json:"name" mapstructure:"name"`
	Issuer string `json:"issuer" mapstructure:"issuer"`
	Date   string `json:"date" mapstructure:"date"`
}

type Project struct {
	Name         string   `json:"name" mapstructure:"name"`
	Description  string   `json:"description" mapstructure:"description"`
	Technologies []string `json:"technologies" mapstructure:"technologies"`
	URL          string   `json:"url" mapstructure:"url"`
}

// ParsedResume is the validated output of the resume parsing stage.
type ParsedResume struct {
	PersonalInfo   PersonalInfo    `json:"personal_info" mapstructure:"personal_info"`
	Summary        string          `json:"summary" mapstructure:"summary"`
	Education      []Education     `json:"education" mapstructure:"education"`
	Experience     []Experience    `json:"experience" mapstructure:"experience"`
	Skills         Skills          `json:"skills" mapstructure:"skills"`
	Certifications []Certification `json:"certifications" mapstructure:"certifications"`
	Projects       []Project       `json:"projects" mapstructure:"projects"`
}

// HasContent reports whether the record carries any candidate data. Mirrors
// the emptiness rule the validator applies to loose documents.
func (r ParsedResume) HasContent() bool {
	return r.PersonalInfo.Any() ||
		len(r.Education) > 0 ||
		len(r.Experience) > 0 ||
		r.Skills.Any() ||
		len(r.Projects) > 0
}

// CategoryBreakdown is one scored category of a match analysis. Score is in
// canonical 0.0-1.0 units. Details mixes matched items prefixed "+ " and
// gaps prefixed "- ".
type CategoryBreakdown struct {
	Score   float64  `json:"score" mapstructure:"score"`
	Details []string `json:"details" mapstructure:"details"`
}

// MatchAnalysis is the validated output of the job matching stage. All
// scores are canonical 0.0-1.0; the external generation contract emits
// 0-100 and the match agent rescales at the boundary.
type MatchAnalysis struct {
	OverallMatchScore  float64           `json:"overall_match_score" mapstructure:"overall_match_score"`
	SkillsMatch        CategoryBreakdown `json:"skills_match" mapstructure:"skills_match"`
	ExperienceMatch    CategoryBreakdown `json:"experience_match" mapstructure:"experience_match"`
	EducationMatch     CategoryBreakdown `json:"education_match" mapstructure:"education_match"`
	AdditionalMatch    CategoryBreakdown `json:"additional_match" mapstructure:"additional_match"`
	AdditionalInsights []string          `json:"additional_insights" mapstructure:"additional_insights"`
}

type Decision struct {
	Status          string `json:"status" mapstructure:"status"`
	ConfidenceScore int    `json:"confidence_score" mapstructure:"confidence_score"`
	InterviewStage  string `json:"interview_stage" mapstructure:"interview_stage"`
}

type Rationale struct {
	KeyStrengths []string `json:"key_strengths" mapstructure:"key_strengths"`
	Concerns     []string `json:"concerns" mapstructure:"concerns"`
	RiskFactors  []string `json:"risk_factors" mapstructure:"risk_factors"`
}

type Recommendations struct {
	InterviewFocus    []string `json:"interview_focus" mapstructure:"interview_focus"`
	SkillVerification []string `json:"skill_verification" mapstructure:"skill_verification"`
	DiscussionPoints  []string `json:"discussion_points" mapstructure:"discussion_points"`
}

type HiringManagerNotes struct {
	SalaryBandFit          string   `json:"salary_band_fit" mapstructure:"salary_band_fit"`
	GrowthTrajectory       string   `json:"growth_trajectory" mapstructure:"growth_trajectory"`
	TeamFitConsiderations  string   `json:"team_fit_considerations" mapstructure:"team_fit_considerations"`
	OnboardingRequirements []string `json:"onboarding_requirements" mapstructure:"onboarding_requirements"`
}

type NextSteps struct {
	ImmediateActions       []string `json:"immediate_actions" mapstructure:"immediate_actions"`
	RequiredApprovals      []string `json:"required_approvals" mapstructure:"required_approvals"`
	TimelineRecommendation string   `json:"timeline_recommendation" mapstructure:"timeline_recommendation"`
}

// DecisionFeedback is the validated output of the decision generation stage.
type DecisionFeedback struct {
	Decision           Decision           `json:"decision" mapstructure:"decision"`
	Rationale          Rationale          `json:"rationale" mapstructure:"rationale"`
	Recommendations    Recommendations    `json:"recommendations" mapstructure:"recommendations"`
	HiringManagerNotes HiringManagerNotes `json:"hiring_manager_notes" mapstructure:"hiring_manager_notes"`
	NextSteps          NextSteps          `json:"next_steps" mapstructure:"next_steps"`
}

// ValidStatus reports whether s is a known decision status.
func ValidStatus(s string) bool {
	return s == StatusProceed || s == StatusHold || s == StatusReject
}

// ValidInterviewStage reports whether s is a known interview stage.
func ValidInterviewStage(s string) bool {
	return s == StageSkip || s == StageScreening || s == StageTechnical || s == StageFullLoop
}
