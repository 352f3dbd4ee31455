// Package report renders a pipeline result as a Markdown document for
// storage or review.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/hirescreen/hirescreen/internal/ats"
	"github.com/hirescreen/hirescreen/internal/pipeline"
)

// Markdown renders the full analysis report for one pipeline run.
func Markdown(result *pipeline.Result) string {
	var b strings.Builder

	b.WriteString("# ATS Analysis Report\n\n")
	fmt.Fprintf(&b, "- Run ID: `%s`\n", result.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", result.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Model: %s\n", result.Model)
	fmt.Fprintf(&b, "- Candidate level: %s\n", result.ExperienceLevel)
	b.WriteString("\n---\n\n")

	writeJobDescription(&b, result.JobDescription)
	writeResume(&b, result.Resume)
	writeMatch(&b, result.Match)
	writeDecision(&b, result.Decision)

	return b.String()
}

func writeJobDescription(b *strings.Builder, jobDescription string) {
	b.WriteString("## Job Description\n\n")
	if strings.TrimSpace(jobDescription) == "" {
		b.WriteString("_No job description provided._\n")
	} else {
		b.WriteString("```\n")
		b.WriteString(strings.TrimSpace(jobDescription))
		b.WriteString("\n```\n")
	}
	b.WriteString("\n---\n\n")
}

func writeResume(b *strings.Builder, resume ats.ParsedResume) {
	b.WriteString("## Parsed Resume\n\n")
	if !resume.HasContent() {
		b.WriteString("_Resume data not available or not processed._\n\n---\n\n")
		return
	}

	fmt.Fprintf(b, "**Name:** %s\n", orNA(resume.PersonalInfo.Name))
	fmt.Fprintf(b, "**Email:** %s\n", orNA(resume.PersonalInfo.Email))
	fmt.Fprintf(b, "**Phone:** %s\n", orNA(resume.PersonalInfo.Phone))
	fmt.Fprintf(b, "**Location:** %s\n", orNA(resume.PersonalInfo.Location))

	b.WriteString("\n**Summary:**\n")
	if resume.Summary != "" {
		b.WriteString(resume.Summary + "\n")
	} else {
		b.WriteString("_No summary found._\n")
	}

	b.WriteString("\n**Skills:**\n")
	if resume.Skills.Any() {
		if len(resume.Skills.Technical) > 0 {
			fmt.Fprintf(b, "- Technical: %s\n", strings.Join(resume.Skills.Technical, ", "))
		}
		if len(resume.Skills.Soft) > 0 {
			fmt.Fprintf(b, "- Soft: %s\n", strings.Join(resume.Skills.Soft, ", "))
		}
	} else {
		b.WriteString("_No skills listed._\n")
	}

	b.WriteString("\n**Experience:**\n")
	if len(resume.Experience) > 0 {
		for _, exp := range resume.Experience {
			endDate := exp.EndDate
			if endDate == "" {
				endDate = "Present"
			}
			fmt.Fprintf(b, "- **%s** at %s (%s - %s)\n", orNA(exp.Title), orNA(exp.Company), orNA(exp.StartDate), endDate)
			if len(exp.Responsibilities) > 0 {
				fmt.Fprintf(b, "  - Responsibilities: %s\n", strings.Join(exp.Responsibilities, "; "))
			}
			if len(exp.Achievements) > 0 {
				fmt.Fprintf(b, "  - Achievements: %s\n", strings.Join(exp.Achievements, "; "))
			}
		}
	} else {
		b.WriteString("_No experience listed._\n")
	}

	b.WriteString("\n**Education:**\n")
	if len(resume.Education) > 0 {
		for _, edu := range resume.Education {
			line := fmt.Sprintf("- **%s**", orNA(edu.Degree))
			if edu.Field != "" {
				line += " in " + edu.Field
			}
			line += " from " + orNA(edu.Institution)
			if edu.GraduationDate != "" {
				line += " (" + edu.GraduationDate + ")"
			}
			b.WriteString(line + "\n")
		}
	} else {
		b.WriteString("_No education listed._\n")
	}

	if len(resume.Projects) > 0 {
		b.WriteString("\n**Projects:**\n")
		for _, proj := range resume.Projects {
			fmt.Fprintf(b, "- **%s**\n", proj.Name)
			if proj.Description != "" {
				fmt.Fprintf(b, "  - %s\n", proj.Description)
			}
			if len(proj.Technologies) > 0 {
				fmt.Fprintf(b, "  - Tech: %s\n", strings.Join(proj.Technologies, ", "))
			}
			if proj.URL != "" {
				fmt.Fprintf(b, "  - URL: %s\n", proj.URL)
			}
		}
	}

	if len(resume.Certifications) > 0 {
		b.WriteString("\n**Certifications:**\n")
		for _, cert := range resume.Certifications {
			line := "- **" + cert.Name + "**"
			if cert.Issuer != "" {
				line += " from " + cert.Issuer
			}
			if cert.Date != "" {
				line += " (" + cert.Date + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n---\n\n")
}

func writeMatch(b *strings.Builder, match ats.MatchAnalysis) {
	b.WriteString("## Job Match Analysis\n\n")
	fmt.Fprintf(b, "**Overall Match Score:** %.0f%%\n", match.OverallMatchScore*100)

	categories := []struct {
		name      string
		breakdown ats.CategoryBreakdown
	}{
		{"Skills", match.SkillsMatch},
		{"Experience", match.ExperienceMatch},
		{"Education", match.EducationMatch},
		{"Additional", match.AdditionalMatch},
	}
	for _, c := range categories {
		fmt.Fprintf(b, "\n**%s (%.0f%%):**\n", c.name, c.breakdown.Score*100)
		for _, detail := range c.breakdown.Details {
			b.WriteString("- " + detail + "\n")
		}
	}

	b.WriteString("\n**Additional Insights:**\n")
	for _, insight := range match.AdditionalInsights {
		b.WriteString("- " + insight + "\n")
	}

	b.WriteString("\n---\n\n")
}

func writeDecision(b *strings.Builder, decision ats.DecisionFeedback) {
	b.WriteString("## Hiring Decision\n\n")
	fmt.Fprintf(b, "**Recommendation:** %s\n", decision.Decision.Status)
	fmt.Fprintf(b, "**Confidence Score:** %d%%\n", decision.Decision.ConfidenceScore)
	fmt.Fprintf(b, "**Suggested Stage:** %s\n", decision.Decision.InterviewStage)

	b.WriteString("\n**Rationale:**\n")
	writeJoined(b, "Key Strengths", decision.Rationale.KeyStrengths)
	writeJoined(b, "Concerns", decision.Rationale.Concerns)
	writeJoined(b, "Risk Factors", decision.Rationale.RiskFactors)

	b.WriteString("\n**Recommendations:**\n")
	writeJoined(b, "Interview Focus", decision.Recommendations.InterviewFocus)
	writeJoined(b, "Skill Verification", decision.Recommendations.SkillVerification)
	writeJoined(b, "Discussion Points", decision.Recommendations.DiscussionPoints)

	b.WriteString("\n**Hiring Manager Notes:**\n")
	fmt.Fprintf(b, "- Salary Band Fit: %s\n", orNA(decision.HiringManagerNotes.SalaryBandFit))
	fmt.Fprintf(b, "- Growth Trajectory: %s\n", orNA(decision.HiringManagerNotes.GrowthTrajectory))
	fmt.Fprintf(b, "- Team Fit: %s\n", orNA(decision.HiringManagerNotes.TeamFitConsiderations))
	writeJoined(b, "Onboarding Requirements", decision.HiringManagerNotes.OnboardingRequirements)

	b.WriteString("\n**Next Steps:**\n")
	writeJoined(b, "Immediate Actions", decision.NextSteps.ImmediateActions)
	writeJoined(b, "Required Approvals", decision.NextSteps.RequiredApprovals)
	fmt.Fprintf(b, "- Timeline: %s\n", orNA(decision.NextSteps.TimelineRecommendation))
}

func writeJoined(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.Join(items, "; "))
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
