// Package analysis compares a resume with a job description and produces a
// scored, narrated match report.
package analysis

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/taxonomy"
	"github.com/jonathan/resume-analyzer/internal/types"
)

// Similarity scores the semantic closeness of two texts in [0, 100].
// Implementations must be deterministic for identical inputs within a process
// and safe for concurrent use.
type Similarity interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// SimilarityFunc adapts a function to the Similarity interface.
type SimilarityFunc func(ctx context.Context, a, b string) (float64, error)

// Similarity calls f(ctx, a, b).
func (f SimilarityFunc) Similarity(ctx context.Context, a, b string) (float64, error) {
	return f(ctx, a, b)
}

// Analyzer runs analyses against one taxonomy. It holds no per-call state and
// is safe for concurrent use.
type Analyzer struct {
	tax        *taxonomy.Taxonomy
	similarity Similarity
	ext        *extractors
}

// New creates an Analyzer. A nil similarity omits the semantic score.
func New(tax *taxonomy.Taxonomy, similarity Similarity) *Analyzer {
	return &Analyzer{
		tax:        tax,
		similarity: similarity,
		ext:        newExtractors(tax),
	}
}

// Taxonomy returns the taxonomy the analyzer was built with.
func (a *Analyzer) Taxonomy() *taxonomy.Taxonomy {
	return a.tax
}

// Analyze compares a resume with a job description. The input is not
// validated: callers reject empty resume text. An empty job description
// substitutes the role's canonical skills for the job skills and omits the
// semantic score. A similarity failure fails the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, in types.AnalysisInput) (*types.AnalysisResult, error) {
	resume := parsing.Normalize(in.ResumeText)
	jd := parsing.Normalize(in.JobDescription)
	role := a.ResolveRole(in.SelectedRole, jd)
	roleSkills := sortedCopy(a.tax.RoleSkills(role))

	resumeSkills := a.ext.skills.find(resume)
	jobSkills := roleSkills
	if jd != "" {
		jobSkills = a.ext.skills.find(jd)
	}
	matchedSkills, missingSkills := Compare(resumeSkills, jobSkills)
	matchedRole, missingRole := Compare(resumeSkills, roleSkills)

	resumeSoft := a.ext.softSkills.find(resume)
	jobSoft := a.ext.softSkills.find(jd)
	matchedSoft, missingSoft := Compare(resumeSoft, referenceOrOwn(jobSoft, resumeSoft))

	resumeCerts := a.ext.certifications.find(resume)
	jobCerts := a.ext.certifications.find(jd)
	matchedCerts, missingCerts := Compare(resumeCerts, referenceOrOwn(jobCerts, resumeCerts))

	experienceHits := a.ext.experience.find(resume)
	projectHits := a.ext.projects.find(resume)
	educationHits := a.ext.education.find(resume)

	breakdown := types.ScoreBreakdown{
		SkillsMatch:     SkillsMatchScore(len(matchedSkills), len(jobSkills)),
		ExperienceMatch: ExperienceScore(len(experienceHits) > 0, len(projectHits) > 0),
		EducationMatch:  EducationScore(len(educationHits) > 0),
	}
	if jd != "" && a.similarity != nil {
		sim, err := a.similarity.Similarity(ctx, resume, jd)
		if err != nil {
			return nil, fmt.Errorf("failed to compute semantic similarity: %w", err)
		}
		semantic := SemanticScore(sim)
		breakdown.SemanticMatch = &semantic
	}
	coverage := TechstackCoverage(resumeSkills, roleSkills)
	overall := OverallScore(breakdown)

	facts := &Facts{
		Role:         role,
		WordCount:    parsing.WordCount(resume),
		SoftRequired: len(jobSoft) > 0,
		SkillsScore:  breakdown.SkillsMatch,
		Coverage:     coverage,
		Semantic:     breakdown.SemanticMatch,
		categories: map[string]category{
			sectionSkills:         {matched: matchedSkills, missing: missingSkills},
			sectionRoleStack:      {matched: matchedRole, missing: missingRole},
			sectionSoftSkills:     {matched: matchedSoft, missing: missingSoft},
			sectionCertifications: {matched: matchedCerts, missing: missingCerts},
			sectionExperience:     indicatorCategory(experienceHits, experienceKeywords),
			sectionProjects:       indicatorCategory(projectHits, projectKeywords),
			sectionEducation:      indicatorCategory(educationHits, educationKeywords),
		},
	}
	narrative := GenerateNarrative(narrativeRules, facts)

	responsibilities := a.tax.Responsibilities(role)
	keywords := a.tax.Keywords(role)

	result := &types.AnalysisResult{
		RoleDetected:      role,
		SelectedRole:      parsing.Normalize(in.SelectedRole),
		ProfileType:       a.profileType(resume),
		OverallScore:      overall,
		ScoreBreakdown:    breakdown,
		TechstackCoverage: coverage,
		Skills: types.SkillsBreakdown{
			ResumeSkills:          resumeSkills,
			JobSkills:             jobSkills,
			MatchedSkills:         orFallback(matchedSkills, noneMatched("technical skills")),
			MissingSkills:         orFallback(missingSkills, noneMissing("technical skills")),
			MatchedRoleSkills:     orFallback(matchedRole, noneMatched("role tech stack skills")),
			MissingRoleSkills:     orFallback(missingRole, noneMissing("role tech stack skills")),
			MatchedSoftSkills:     orFallback(matchedSoft, noneMatched("soft skills")),
			MissingSoftSkills:     orFallback(missingSoft, noneMissing("soft skills")),
			MatchedCertifications: orFallback(matchedCerts, noneMatched("certifications")),
			MissingCertifications: orFallback(missingCerts, noneMissing("certifications")),
		},
		Strengths:           orEmpty(narrative.Strengths),
		Weaknesses:          orEmpty(narrative.Weaknesses),
		Suggestions:         narrative.Suggestions,
		Feedback:            narrative.feedback(),
		Flaws:               narrative.flaws(types.NoMajorFlaws),
		KeyResponsibilities: orEmpty(responsibilities),
		RecommendedKeywords: orEmpty(keywords),
		Sections:            buildSections(facts),
		Summary: buildSummary(summaryInput{
			role:             role,
			narrative:        narrative,
			responsibilities: responsibilities,
			keywords:         keywords,
			overall:          overall,
			skills:           breakdown.SkillsMatch,
			coverage:         coverage,
		}),
		ChartData: chartData(overall, breakdown, coverage),
	}
	return result, nil
}

func (a *Analyzer) profileType(resume string) string {
	if a.ext.fresher.any(resume) {
		return types.ProfileFresher
	}
	return types.ProfileExperienced
}

// referenceOrOwn returns reference, or the resume's own set when the job
// lists nothing, so nothing is reported missing for an unstated requirement.
func referenceOrOwn(reference, own []string) []string {
	if len(reference) == 0 {
		return own
	}
	return reference
}

// indicatorCategory reports the keyword hits, and the full indicator list as
// missing only when nothing was found.
func indicatorCategory(hits, indicators []string) category {
	if len(hits) > 0 {
		return category{matched: hits, missing: []string{}}
	}
	return category{matched: hits, missing: sortedCopy(indicators)}
}

func chartData(overall float64, b types.ScoreBreakdown, coverage float64) map[string]float64 {
	data := map[string]float64{
		"overall_score":      overall,
		"skills_match":       b.SkillsMatch,
		"experience_match":   b.ExperienceMatch,
		"education_match":    b.EducationMatch,
		"techstack_coverage": coverage,
	}
	if b.SemanticMatch != nil {
		data["semantic_match"] = *b.SemanticMatch
	}
	return data
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
