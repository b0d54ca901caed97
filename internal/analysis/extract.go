package analysis

import (
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/taxonomy"
)

// extractors holds the compiled matchers for one taxonomy.
type extractors struct {
	skills         *termMatcher
	softSkills     *termMatcher
	certifications *termMatcher
	experience     *termMatcher
	projects       *termMatcher
	education      *termMatcher
	fresher        *termMatcher
	roles          []roleMatcher
}

// Indicator keywords for the heuristic sub-scores and the profile type.
var (
	experienceKeywords = []string{"experience", "work", "internship"}
	projectKeywords    = []string{"project", "projects", "portfolio"}
	educationKeywords  = []string{
		"education", "degree", "bachelor", "bachelors", "master", "masters", "phd", "doctorate",
		"b.tech", "m.tech", "b.e", "m.e", "b.sc", "m.sc", "bca", "mca", "mba", "diploma",
		"university", "college",
	}
	fresherKeywords = []string{
		"fresher", "student", "intern", "internship", "final year", "undergraduate", "graduate",
	}
)

func newExtractors(tax *taxonomy.Taxonomy) *extractors {
	return &extractors{
		skills:         newWordMatcher(tax.GeneralSkills()),
		softSkills:     newWordMatcher(tax.SoftSkills()),
		certifications: newSubstringMatcher(tax.Certifications()),
		experience:     newWordMatcher(experienceKeywords),
		projects:       newWordMatcher(projectKeywords),
		education:      newWordMatcher(educationKeywords),
		fresher:        newWordMatcher(fresherKeywords),
		roles:          newRoleMatchers(tax),
	}
}

// ExtractSkills returns the technical skills from the taxonomy found in text
// as whole words, sorted.
func (a *Analyzer) ExtractSkills(text string) []string {
	return a.ext.skills.find(parsing.Normalize(text))
}

// ExtractSoftSkills returns the soft skills found in text as whole words, sorted.
func (a *Analyzer) ExtractSoftSkills(text string) []string {
	return a.ext.softSkills.find(parsing.Normalize(text))
}

// ExtractCertifications returns the certifications found anywhere in text, sorted.
func (a *Analyzer) ExtractCertifications(text string) []string {
	return a.ext.certifications.find(parsing.Normalize(text))
}
