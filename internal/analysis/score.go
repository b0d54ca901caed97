package analysis

import (
	"math"

	"github.com/jonathan/resume-analyzer/internal/types"
)

// Weights of the overall score. The semantic weight is not redistributed when
// the semantic score is absent.
const (
	skillsWeight     = 0.4
	experienceWeight = 0.3
	educationWeight  = 0.2
	semanticWeight   = 0.1
)

// Heuristic score constants.
const (
	experienceBaseline = 65.0
	experienceBonus    = 15.0
	projectBonus       = 10.0
	educationPresent   = 85.0
	educationUnknown   = 55.0
	maxScore           = 100.0
)

// SkillsMatchScore is matched/max(total, 1) as a percentage.
func SkillsMatchScore(matched, total int) float64 {
	return round2(clamp(float64(matched) / float64(max(total, 1)) * 100))
}

// TechstackCoverage is the share of the role's canonical skills found in the
// resume, or 0 when the role defines no skills.
func TechstackCoverage(resumeSkills, roleSkills []string) float64 {
	if len(roleSkills) == 0 {
		return 0
	}
	matched, _ := Compare(resumeSkills, roleSkills)
	return round2(clamp(float64(len(matched)) / float64(len(roleSkills)) * 100))
}

// ExperienceScore starts at the baseline and adds fixed bonuses for
// experience and project indicators, capped at 100.
func ExperienceScore(hasExperience, hasProjects bool) float64 {
	score := experienceBaseline
	if hasExperience {
		score += experienceBonus
	}
	if hasProjects {
		score += projectBonus
	}
	return round2(min(score, maxScore))
}

// EducationScore is 85 when education is mentioned and 55 otherwise.
// Missing education is treated as unknown, never as zero.
func EducationScore(hasEducation bool) float64 {
	if hasEducation {
		return educationPresent
	}
	return educationUnknown
}

// SemanticScore clamps and rounds a similarity value returned by the
// similarity capability.
func SemanticScore(similarity float64) float64 {
	if math.IsNaN(similarity) {
		return 0
	}
	return round2(clamp(similarity))
}

// OverallScore combines the breakdown into the weighted overall score.
// An absent semantic score contributes 0.
func OverallScore(b types.ScoreBreakdown) float64 {
	total := skillsWeight*b.SkillsMatch +
		experienceWeight*b.ExperienceMatch +
		educationWeight*b.EducationMatch
	if b.SemanticMatch != nil {
		total += semanticWeight * *b.SemanticMatch
	}
	return round2(clamp(total))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(maxScore, v))
}
