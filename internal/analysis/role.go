package analysis

import (
	"strings"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/taxonomy"
)

// roleMatcher pairs a candidate role with a matcher over its skills.
type roleMatcher struct {
	role   string
	skills *termMatcher
}

func newRoleMatchers(tax *taxonomy.Taxonomy) []roleMatcher {
	candidates := tax.CandidateRoles()
	matchers := make([]roleMatcher, 0, len(candidates))
	for _, role := range candidates {
		matchers = append(matchers, roleMatcher{role: role, skills: newWordMatcher(tax.RoleSkills(role))})
	}
	return matchers
}

// InferRole picks a role for a job description.
//
// A role whose name appears literally in the text wins. Otherwise the first
// role, in table order, with any of its skills present as a whole word is
// returned. The first match wins; there is no vote across roles. Text
// matching nothing maps to the general role.
func (a *Analyzer) InferRole(jobDescription string) string {
	jd := parsing.Normalize(jobDescription)
	if jd == "" {
		return taxonomy.GeneralRole
	}

	for _, m := range a.ext.roles {
		if strings.Contains(jd, m.role) {
			return m.role
		}
	}

	for _, m := range a.ext.roles {
		if m.skills.any(jd) {
			return m.role
		}
	}

	return taxonomy.GeneralRole
}

// ResolveRole returns the normalized selected role when one was supplied,
// skipping inference. Unknown selected roles are kept as-is; lookups for them
// fall back to the general role.
func (a *Analyzer) ResolveRole(selectedRole, jobDescription string) string {
	if role := parsing.Normalize(selectedRole); role != "" {
		return role
	}
	return a.InferRole(jobDescription)
}
