package ats

// Sentinel strings embedded in default records. They make a fallback record
// visually distinguishable from genuine low scores in any downstream report.
const (
	SentinelAnalysisFailed  = "Analysis failed - please try again"
	SentinelProcessingError = "Unable to determine due to processing error"
	SentinelNoInsights      = "No additional insights available"
)

// EmptyResume returns a resume record with every string empty and every list
// present but empty, so downstream rendering never branches on absence.
func EmptyResume() ParsedResume {
	return ParsedResume{
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         Skills{Technical: []string{}, Soft: []string{}},
		Certifications: []Certification{},
		Projects:       []Project{},
	}
}

// DefaultMatchAnalysis returns the fallback match record: floor scores and
// sentinel detail strings on every category.
func DefaultMatchAnalysis() MatchAnalysis {
	failed := CategoryBreakdown{
		Score:   0.0,
		Details: []string{SentinelAnalysisFailed},
	}
	return MatchAnalysis{
		OverallMatchScore:  0.0,
		SkillsMatch:        failed,
		ExperienceMatch:    failed,
		EducationMatch:     failed,
		AdditionalMatch:    failed,
		AdditionalInsights: []string{SentinelAnalysisFailed},
	}
}

// SkippedMatchAnalysis returns the record used when no job description was
// supplied and the matching stage never ran. Distinct from the failure
// default so consumers can tell "not requested" from "could not determine".
func SkippedMatchAnalysis() MatchAnalysis {
	skipped := CategoryBreakdown{
		Score:   0.0,
		Details: []string{"Job matching was not requested"},
	}
	return MatchAnalysis{
		OverallMatchScore:  0.0,
		SkillsMatch:        skipped,
		ExperienceMatch:    skipped,
		EducationMatch:     skipped,
		AdditionalMatch:    skipped,
		AdditionalInsights: []string{"No job description supplied"},
	}
}

// DefaultDecision returns the fallback decision record. Confidence and stage
// are mid-scale sentinels signaling "undetermined" rather than "worst case";
// the string fields carry the explicit failure markers.
func DefaultDecision() DecisionFeedback {
	return DecisionFeedback{
		Decision: Decision{
			Status:          StatusHold,
			ConfidenceScore: 50,
			InterviewStage:  StageScreening,
		},
		Rationale: Rationale{
			KeyStrengths: []string{SentinelProcessingError},
			Concerns:     []string{"Unable to process candidate data completely"},
			RiskFactors:  []string{"Decision based on incomplete information"},
		},
		Recommendations: Recommendations{
			InterviewFocus:    []string{"Verify resume contents manually"},
			SkillVerification: []string{"Conduct thorough technical assessment"},
			DiscussionPoints:  []string{"Discuss areas mentioned in resume"},
		},
		HiringManagerNotes: HiringManagerNotes{
			SalaryBandFit:          "Unable to determine",
			GrowthTrajectory:       "Unable to determine",
			TeamFitConsiderations:  "Manual assessment required",
			OnboardingRequirements: []string{"Standard onboarding process"},
		},
		NextSteps: NextSteps{
			ImmediateActions:       []string{"Re-run analysis or manually review"},
			RequiredApprovals:      []string{"Hiring manager approval needed"},
			TimelineRecommendation: "Proceed with caution due to data processing issues",
		},
	}
}

// SkippedDecision returns the record used when the decision stage never ran
// because no job description was supplied.
func SkippedDecision() DecisionFeedback {
	return DecisionFeedback{
		Decision: Decision{
			Status:          StatusHold,
			ConfidenceScore: 50,
			InterviewStage:  StageScreening,
		},
		Rationale: Rationale{
			KeyStrengths: []string{"Decision generation was not requested"},
			Concerns:     []string{"No job description supplied"},
			RiskFactors:  []string{},
		},
		Recommendations: Recommendations{
			InterviewFocus:    []string{},
			SkillVerification: []string{},
			DiscussionPoints:  []string{},
		},
		HiringManagerNotes: HiringManagerNotes{
			SalaryBandFit:          "Not evaluated",
			GrowthTrajectory:       "Not evaluated",
			TeamFitConsiderations:  "Not evaluated",
			OnboardingRequirements: []string{},
		},
		NextSteps: NextSteps{
			ImmediateActions:       []string{"Supply a job description to run matching and decision stages"},
			RequiredApprovals:      []string{},
			TimelineRecommendation: "Not evaluated",
		},
	}
}

// Normalize replaces nil slices with empty ones so serialized records never
// contain null where the contract promises a list.
func (r *ParsedResume) Normalize() {
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	for i := range r.Experience {
		if r.Experience[i].Responsibilities == nil {
			r.Experience[i].Responsibilities = []string{}
		}
		if r.Experience[i].Achievements == nil {
			r.Experience[i].Achievements = []string{}
		}
	}
	if r.Skills.Technical == nil {
		r.Skills.Technical = []string{}
	}
	if r.Skills.Soft == nil {
		r.Skills.Soft = []string{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
}

// Normalize replaces nil slices with empty ones and guarantees at least one
// additional insight.
func (m *MatchAnalysis) Normalize() {
	for _, b := range []*CategoryBreakdown{&m.SkillsMatch, &m.ExperienceMatch, &m.EducationMatch, &m.AdditionalMatch} {
		if b.Details == nil {
			b.Details = []string{}
		}
	}
	if len(m.AdditionalInsights) == 0 {
		m.AdditionalInsights = []string{SentinelNoInsights}
	}
}

// Normalize replaces nil slices with empty ones.
func (d *DecisionFeedback) Normalize() {
	fields := []*[]string{
		&d.Rationale.KeyStrengths,
		&d.Rationale.Concerns,
		&d.Rationale.RiskFactors,
		&d.Recommendations.InterviewFocus,
		&d.Recommendations.SkillVerification,
		&d.Recommendations.DiscussionPoints,
		&d.HiringManagerNotes.OnboardingRequirements,
		&d.NextSteps.ImmediateActions,
		&d.NextSteps.RequiredApprovals,
	}
	for _, f := range fields {
		if *f == nil {
			*f = []string{}
		}
	}
}
