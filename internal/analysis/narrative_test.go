package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factsWith(categories map[string]category) *Facts {
	return &Facts{
		Role:        "backend developer",
		WordCount:   500,
		SkillsScore: 50,
		Coverage:    50,
		categories:  categories,
	}
}

func TestNarrativeRules_Order(t *testing.T) {
	require.NotEmpty(t, narrativeRules)
	assert.Equal(t, "skills-matched", narrativeRules[0].Name)
	assert.Equal(t, "low-semantic-similarity", narrativeRules[len(narrativeRules)-1].Name)

	var sectionOrder []string
	for _, rule := range narrativeRules {
		if key, ok := strings.CutSuffix(rule.Name, "-matched"); ok {
			sectionOrder = append(sectionOrder, key)
		}
	}
	assert.Equal(t, []string{
		sectionSkills, sectionRoleStack, sectionSoftSkills, sectionCertifications,
		sectionExperience, sectionProjects, sectionEducation,
	}, sectionOrder)
}

func TestGenerateNarrative_CustomRules(t *testing.T) {
	rules := []Rule{
		{Name: "always", Kind: KindStrength, When: func(*Facts) bool { return true }, Message: func(*Facts) string { return "first" }},
		{Name: "never", Kind: KindFlaw, When: func(*Facts) bool { return false }, Message: func(*Facts) string { return "unreachable" }},
		{Name: "role", Kind: KindWeakness, When: func(*Facts) bool { return true }, Message: func(f *Facts) string { return "role " + f.Role }},
		{Name: "duplicate", Kind: KindStrength, When: func(*Facts) bool { return true }, Message: func(*Facts) string { return "first" }},
	}

	n := GenerateNarrative(rules, factsWith(nil))

	assert.Equal(t, []string{"first"}, n.Strengths)
	assert.Equal(t, []string{"role backend developer"}, n.Weaknesses)
	assert.Empty(t, n.Flaws)
	assert.Equal(t, genericSuggestions, n.Suggestions)
	assert.Len(t, genericSuggestions, 15)
}

func TestGenerateNarrative_SectionRules(t *testing.T) {
	f := factsWith(map[string]category{
		sectionSkills:     {matched: []string{"python"}, missing: []string{"docker", "sql"}},
		sectionRoleStack:  {matched: []string{"python"}, missing: []string{}},
		sectionSoftSkills: {matched: []string{}, missing: []string{}},
	})

	n := GenerateNarrative(narrativeRules, f)

	assert.Equal(t, "Resume shows technical skills: python", n.Strengths[0])
	assert.Contains(t, n.Weaknesses, "Missing technical skills: docker, sql")
	assert.Contains(t, n.Suggestions, "Add or highlight these technical skills if you have them: docker, sql")
	assert.Contains(t, n.Weaknesses, "No soft skills detected in the resume")
	assert.Contains(t, n.Weaknesses, "No certifications detected")
	assert.NotContains(t, n.Weaknesses, "Missing role tech stack skills: ")
	assert.Empty(t, n.Flaws)
}

func TestGenerateNarrative_GlobalChecks(t *testing.T) {
	low := 5.0
	f := &Facts{
		Role:         "data analyst",
		WordCount:    12,
		SoftRequired: true,
		Semantic:     &low,
		categories: map[string]category{
			sectionSoftSkills: {matched: []string{}, missing: []string{"leadership"}},
		},
	}

	n := GenerateNarrative(narrativeRules, f)

	require.Len(t, n.Flaws, 3)
	assert.Equal(t, "Resume is too short (12 words); aim for at least 200 words", n.Flaws[0])
	assert.Equal(t, "None of the required technical skills were found in the resume", n.Flaws[1])
	assert.Equal(t, "The job asks for soft skills (leadership) but none appear in the resume", n.Flaws[2])

	last := n.Weaknesses[len(n.Weaknesses)-3:]
	assert.Equal(t, []string{
		"Skills match score is 0%",
		"Tech stack coverage for data analyst is 0%",
		"Low semantic similarity with the job description (5.00%)",
	}, last)
}

func TestNarrative_FeedbackAndFlaws(t *testing.T) {
	n := Narrative{Strengths: []string{"s1", "s2"}, Weaknesses: []string{"w1"}}
	assert.Equal(t, []string{"s2", "w1"}, n.feedback())
	assert.Equal(t, []string{"none"}, n.flaws("none"))

	empty := Narrative{}
	assert.Empty(t, empty.feedback())

	n.Flaws = []string{"f1"}
	assert.Equal(t, []string{"f1"}, n.flaws("none"))
}

func TestListItems(t *testing.T) {
	assert.Equal(t, "a, b", listItems([]string{"a", "b"}))
	assert.Equal(t, "1, 2, 3, 4, 5, 6, 7, 8 and 2 more",
		listItems([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}))
}

func TestBuildSection(t *testing.T) {
	def := sectionDefs[0]

	t.Run("partial", func(t *testing.T) {
		s := buildSection(def, category{matched: []string{"go"}, missing: []string{"rust"}})
		assert.Equal(t, "Technical Skills", s.Name)
		assert.Equal(t, "Partial coverage of technical skills: 1 of 2 found.", s.Feedback)
		assert.Equal(t, []string{"Add or highlight: rust"}, s.Suggestions)
	})

	t.Run("nothing matched", func(t *testing.T) {
		s := buildSection(def, category{matched: []string{}, missing: []string{"rust"}})
		assert.Equal(t, []string{"No matched technical skills detected."}, s.Matched)
		assert.Len(t, s.Suggestions, 2)
	})

	t.Run("full coverage", func(t *testing.T) {
		s := buildSection(def, category{matched: []string{"go"}, missing: []string{}})
		assert.Equal(t, []string{"No missing technical skills detected."}, s.Missing)
		assert.Equal(t, "Good coverage of technical skills.", s.Feedback)
		assert.Len(t, s.Suggestions, 1)
	})
}
