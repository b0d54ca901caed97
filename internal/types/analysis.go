// Package types provides type definitions for structured data used throughout the resume analyzer.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Profile types reported in AnalysisResult.ProfileType.
const (
	ProfileFresher     = "Fresher"
	ProfileExperienced = "Experienced"
)

// NoMajorFlaws is the single flaw entry reported when no flaw rule fired.
const NoMajorFlaws = "No major flaws detected."

// AnalysisInput is the request for a single resume/job description comparison.
// An empty JobDescription is a supported input; an empty ResumeText is not.
type AnalysisInput struct {
	ResumeText     string `json:"resume_text" validate:"required"`
	JobDescription string `json:"job_description"`
	SelectedRole   string `json:"selected_role,omitempty" validate:"omitempty,max=100"`
}

// Validate validates the AnalysisInput using the validator.
func (in *AnalysisInput) Validate() error {
	validate := validator.New()
	return validate.Struct(in)
}

// ScoreBreakdown holds the weighted sub-scores, each in [0, 100].
// SemanticMatch is nil when no job description was supplied.
type ScoreBreakdown struct {
	SkillsMatch     float64  `json:"skills_match"`
	ExperienceMatch float64  `json:"experience_match"`
	EducationMatch  float64  `json:"education_match"`
	SemanticMatch   *float64 `json:"semantic_match,omitempty"`
}

// SkillsBreakdown is the skills sub-record of an analysis.
// The matched/missing lists never come back empty: an empty set is replaced
// by a single human-readable fallback sentence.
type SkillsBreakdown struct {
	ResumeSkills []string `json:"resume_skills"`
	JobSkills    []string `json:"job_skills"`

	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`

	MatchedRoleSkills []string `json:"matched_role_skills"`
	MissingRoleSkills []string `json:"missing_role_skills"`

	MatchedSoftSkills []string `json:"matched_soft_skills"`
	MissingSoftSkills []string `json:"missing_soft_skills"`

	MatchedCertifications []string `json:"matched_certifications"`
	MissingCertifications []string `json:"missing_certifications"`
}

// Section is the per-section detail record rendered in reports.
type Section struct {
	Name        string   `json:"name"`
	Matched     []string `json:"matched"`
	Missing     []string `json:"missing"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// AnalysisResult is the full output of one analysis. It is created once per
// call and never mutated afterwards.
type AnalysisResult struct {
	RoleDetected      string          `json:"role_detected"`
	SelectedRole      string          `json:"selected_role,omitempty"`
	ProfileType       string          `json:"profile_type"`
	OverallScore      float64         `json:"overall_score"`
	ScoreBreakdown    ScoreBreakdown  `json:"score_breakdown"`
	TechstackCoverage float64         `json:"techstack_coverage"`
	Skills            SkillsBreakdown `json:"skills"`

	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
	Feedback    []string `json:"feedback"`
	Flaws       []string `json:"flaws"`

	KeyResponsibilities []string `json:"key_responsibilities"`
	RecommendedKeywords []string `json:"recommended_keywords"`

	Sections  []Section          `json:"sections"`
	Summary   string             `json:"summary"`
	ChartData map[string]float64 `json:"chart_data"`
}

// HasSemanticScore reports whether a semantic similarity score was computed.
func (r *AnalysisResult) HasSemanticScore() bool {
	return r.ScoreBreakdown.SemanticMatch != nil
}
