package analysis

import (
	"fmt"
	"strings"
)

// Kind says which list a rule's message is appended to.
type Kind int

const (
	KindStrength Kind = iota
	KindWeakness
	KindSuggestion
	KindFlaw
)

// minResumeWords is the word count under which a resume is flagged as too short.
const minResumeWords = 200

// maxListedItems caps how many items a single narrative message lists.
const maxListedItems = 8

// Section keys in narrative order.
const (
	sectionSkills         = "skills"
	sectionRoleStack      = "role_techstack"
	sectionSoftSkills     = "soft_skills"
	sectionCertifications = "certifications"
	sectionExperience     = "experience"
	sectionProjects       = "projects"
	sectionEducation      = "education"
)

// sectionDef describes the wording of one narrative section.
type sectionDef struct {
	key            string
	title          string
	label          string
	reportMissing  bool
	noneWeakness   string
	noneSuggestion string
}

var sectionDefs = []sectionDef{
	{
		key: sectionSkills, title: "Technical Skills", label: "technical skills", reportMissing: true,
		noneWeakness:   "No technical skills from the job description were found in the resume",
		noneSuggestion: "Add the technical skills the job asks for, with concrete examples of where you used them",
	},
	{
		key: sectionRoleStack, title: "Role Tech Stack", label: "role tech stack skills", reportMissing: true,
		noneWeakness:   "The resume does not cover the core tech stack of the role",
		noneSuggestion: "Mention the core tools and frameworks used in this role",
	},
	{
		key: sectionSoftSkills, title: "Soft Skills", label: "soft skills", reportMissing: true,
		noneWeakness:   "No soft skills detected in the resume",
		noneSuggestion: "Show soft skills such as communication or teamwork through concrete achievements",
	},
	{
		key: sectionCertifications, title: "Certifications", label: "certifications", reportMissing: true,
		noneWeakness:   "No certifications detected",
		noneSuggestion: "List relevant certifications with the issuing body and year",
	},
	{
		key: sectionExperience, title: "Experience", label: "experience indicators",
		noneWeakness:   "No work experience or internship section detected",
		noneSuggestion: "Add a work experience or internship section with roles, dates and outcomes",
	},
	{
		key: sectionProjects, title: "Projects", label: "project indicators",
		noneWeakness:   "No projects section detected",
		noneSuggestion: "Add two or three projects that use the target tech stack",
	},
	{
		key: sectionEducation, title: "Education", label: "education indicators",
		noneWeakness:   "No education details detected",
		noneSuggestion: "Add an education section with degree, institution and graduation year",
	},
}

// genericSuggestions are appended after the rule-based suggestions for every analysis.
var genericSuggestions = []string{
	"Quantify achievements with numbers, percentages or time saved",
	"Start bullet points with strong action verbs",
	"Keep the resume to one or two pages",
	"Use a clean ATS-friendly layout without tables, columns or images",
	"Tailor the professional summary to the target role",
	"Mirror keywords from the job description where they truthfully apply",
	"List the most relevant experience first",
	"Include links to GitHub, a portfolio or LinkedIn",
	"Use consistent date formats and verb tense",
	"Proofread for spelling and grammar errors",
	"Group skills by category such as languages, frameworks and tools",
	"Describe the impact of each project, not only the tasks",
	"Remove outdated or irrelevant experience",
	"Use standard section headings such as Experience, Education and Skills",
	"Submit the resume as a text-based PDF rather than a scanned image",
}

// category is the matched/missing outcome for one section.
type category struct {
	matched []string
	missing []string
}

// Facts is everything the narrative rules look at.
type Facts struct {
	Role         string
	WordCount    int
	SoftRequired bool
	SkillsScore  float64
	Coverage     float64
	Semantic     *float64
	categories   map[string]category
}

func (f *Facts) category(key string) category {
	return f.categories[key]
}

// Rule is one (predicate, message) pair of the narrative rule table.
type Rule struct {
	Name    string
	Kind    Kind
	When    func(f *Facts) bool
	Message func(f *Facts) string
}

// Narrative is the outcome of evaluating the rule table.
type Narrative struct {
	Strengths   []string
	Weaknesses  []string
	Suggestions []string
	Flaws       []string
}

func (n *Narrative) add(kind Kind, message string) {
	switch kind {
	case KindStrength:
		n.Strengths = appendUnique(n.Strengths, message)
	case KindWeakness:
		n.Weaknesses = appendUnique(n.Weaknesses, message)
	case KindSuggestion:
		n.Suggestions = appendUnique(n.Suggestions, message)
	case KindFlaw:
		n.Flaws = appendUnique(n.Flaws, message)
	}
}

// narrativeRules is evaluated top to bottom: section rules in section order,
// then the global checks.
var narrativeRules = buildRules()

func buildRules() []Rule {
	var rules []Rule
	for _, def := range sectionDefs {
		rules = append(rules, sectionRules(def)...)
	}
	return append(rules, globalRules()...)
}

func sectionRules(def sectionDef) []Rule {
	hasMatched := func(f *Facts) bool { return len(f.category(def.key).matched) > 0 }
	noMatched := func(f *Facts) bool { return len(f.category(def.key).matched) == 0 }
	hasMissing := func(f *Facts) bool { return def.reportMissing && len(f.category(def.key).missing) > 0 }

	return []Rule{
		{
			Name: def.key + "-matched", Kind: KindStrength, When: hasMatched,
			Message: func(f *Facts) string {
				return fmt.Sprintf("Resume shows %s: %s", def.label, listItems(f.category(def.key).matched))
			},
		},
		{
			Name: def.key + "-none", Kind: KindWeakness, When: noMatched,
			Message: func(*Facts) string { return def.noneWeakness },
		},
		{
			Name: def.key + "-none-suggestion", Kind: KindSuggestion, When: noMatched,
			Message: func(*Facts) string { return def.noneSuggestion },
		},
		{
			Name: def.key + "-missing", Kind: KindWeakness, When: hasMissing,
			Message: func(f *Facts) string {
				return fmt.Sprintf("Missing %s: %s", def.label, listItems(f.category(def.key).missing))
			},
		},
		{
			Name: def.key + "-missing-suggestion", Kind: KindSuggestion, When: hasMissing,
			Message: func(f *Facts) string {
				return fmt.Sprintf("Add or highlight these %s if you have them: %s", def.label, listItems(f.category(def.key).missing))
			},
		},
	}
}

func globalRules() []Rule {
	return []Rule{
		{
			Name: "resume-too-short", Kind: KindFlaw,
			When: func(f *Facts) bool { return f.WordCount < minResumeWords },
			Message: func(f *Facts) string {
				return fmt.Sprintf("Resume is too short (%d words); aim for at least %d words", f.WordCount, minResumeWords)
			},
		},
		{
			Name: "no-technical-skills", Kind: KindFlaw,
			When: func(f *Facts) bool { return len(f.category(sectionSkills).matched) == 0 },
			Message: func(*Facts) string {
				return "None of the required technical skills were found in the resume"
			},
		},
		{
			Name: "soft-skills-unmatched", Kind: KindFlaw,
			When: func(f *Facts) bool { return f.SoftRequired && len(f.category(sectionSoftSkills).matched) == 0 },
			Message: func(f *Facts) string {
				return fmt.Sprintf("The job asks for soft skills (%s) but none appear in the resume", listItems(f.category(sectionSoftSkills).missing))
			},
		},
		{
			Name: "zero-skills-score", Kind: KindWeakness,
			When:    func(f *Facts) bool { return f.SkillsScore == 0 },
			Message: func(*Facts) string { return "Skills match score is 0%" },
		},
		{
			Name: "zero-coverage", Kind: KindWeakness,
			When: func(f *Facts) bool { return f.Coverage == 0 },
			Message: func(f *Facts) string {
				return fmt.Sprintf("Tech stack coverage for %s is 0%%", f.Role)
			},
		},
		{
			Name: "low-semantic-similarity", Kind: KindWeakness,
			When: func(f *Facts) bool { return f.Semantic != nil && *f.Semantic < 20 },
			Message: func(f *Facts) string {
				return fmt.Sprintf("Low semantic similarity with the job description (%.2f%%)", *f.Semantic)
			},
		},
	}
}

// GenerateNarrative evaluates rules against facts in order and appends the
// generic suggestions.
func GenerateNarrative(rules []Rule, f *Facts) Narrative {
	var n Narrative
	for _, rule := range rules {
		if rule.When(f) {
			n.add(rule.Kind, rule.Message(f))
		}
	}
	for _, s := range genericSuggestions {
		n.add(KindSuggestion, s)
	}
	return n
}

// feedback returns the last strength followed by the last weakness.
func (n Narrative) feedback() []string {
	out := make([]string, 0, 2)
	if len(n.Strengths) > 0 {
		out = append(out, n.Strengths[len(n.Strengths)-1])
	}
	if len(n.Weaknesses) > 0 {
		out = append(out, n.Weaknesses[len(n.Weaknesses)-1])
	}
	return out
}

// flaws returns the detected flaws or the no-major-flaws sentinel.
func (n Narrative) flaws(sentinel string) []string {
	if len(n.Flaws) == 0 {
		return []string{sentinel}
	}
	return n.Flaws
}

func listItems(items []string) string {
	if len(items) > maxListedItems {
		return strings.Join(items[:maxListedItems], ", ") + fmt.Sprintf(" and %d more", len(items)-maxListedItems)
	}
	return strings.Join(items, ", ")
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
