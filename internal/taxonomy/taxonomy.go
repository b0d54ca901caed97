// Package taxonomy provides the read-only role, skill, soft-skill and certification tables
// used by the analyzer. A Taxonomy is built once and shared; it is never mutated after construction.
package taxonomy

import (
	"fmt"
	"slices"
	"sort"

	"github.com/jonathan/resume-analyzer/internal/parsing"
)

// GeneralRole is the universal fallback role.
const GeneralRole = "general"

// Role is one entry of the role table.
type Role struct {
	Name             string   `yaml:"name" validate:"required"`
	Skills           []string `yaml:"skills"`
	Responsibilities []string `yaml:"responsibilities"`
	Keywords         []string `yaml:"keywords"`
}

// Taxonomy holds the lookup tables. Role order is the order the roles were
// supplied in and drives role inference tie-breaks.
type Taxonomy struct {
	roles          []Role
	index          map[string]int
	softSkills     []string
	certifications []string
	generalSkills  []string
}

// ValidationError reports a taxonomy that violates its invariants.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid taxonomy: %s", e.Message)
}

// New builds a Taxonomy from the given tables. Entries are normalized
// (trimmed, collapsed, lowercased) and de-duplicated preserving first occurrence.
// The general role must be present with non-empty responsibilities and keywords.
func New(roles []Role, softSkills, certifications []string) (*Taxonomy, error) {
	t := &Taxonomy{
		roles:          make([]Role, 0, len(roles)),
		index:          make(map[string]int, len(roles)),
		softSkills:     normalizeList(softSkills),
		certifications: normalizeList(certifications),
	}

	generalSet := make(map[string]bool)
	for _, r := range roles {
		name := parsing.Normalize(r.Name)
		if name == "" {
			return nil, &ValidationError{Message: "role with empty name"}
		}
		if _, dup := t.index[name]; dup {
			return nil, &ValidationError{Message: fmt.Sprintf("duplicate role %q", name)}
		}

		role := Role{
			Name:             name,
			Skills:           normalizeList(r.Skills),
			Responsibilities: cleanList(r.Responsibilities),
			Keywords:         normalizeList(r.Keywords),
		}
		t.index[name] = len(t.roles)
		t.roles = append(t.roles, role)

		for _, skill := range role.Skills {
			generalSet[skill] = true
		}
	}

	general, ok := t.role(GeneralRole)
	if !ok {
		return nil, &ValidationError{Message: fmt.Sprintf("missing %q role", GeneralRole)}
	}
	if len(general.Responsibilities) == 0 || len(general.Keywords) == 0 {
		return nil, &ValidationError{Message: fmt.Sprintf("%q role needs responsibilities and keywords", GeneralRole)}
	}

	t.generalSkills = make([]string, 0, len(generalSet))
	for skill := range generalSet {
		t.generalSkills = append(t.generalSkills, skill)
	}
	sort.Strings(t.generalSkills)

	return t, nil
}

// Roles returns every role name in table order, including the general role.
func (t *Taxonomy) Roles() []string {
	names := make([]string, len(t.roles))
	for i, r := range t.roles {
		names[i] = r.Name
	}
	return names
}

// CandidateRoles returns the roles role inference may pick, in table order.
// The general role is the fallback and never a candidate.
func (t *Taxonomy) CandidateRoles() []string {
	names := make([]string, 0, len(t.roles))
	for _, r := range t.roles {
		if r.Name != GeneralRole {
			names = append(names, r.Name)
		}
	}
	return names
}

// HasRole reports whether role is a known role key (case-insensitive).
func (t *Taxonomy) HasRole(role string) bool {
	_, ok := t.role(role)
	return ok
}

// RoleSkills returns the canonical skills for role, or nil for unknown roles.
func (t *Taxonomy) RoleSkills(role string) []string {
	r, ok := t.role(role)
	if !ok {
		return nil
	}
	return slices.Clone(r.Skills)
}

// Responsibilities returns the role's responsibilities, or the general role's
// when the role is unknown or has none.
func (t *Taxonomy) Responsibilities(role string) []string {
	if r, ok := t.role(role); ok && len(r.Responsibilities) > 0 {
		return slices.Clone(r.Responsibilities)
	}
	general, _ := t.role(GeneralRole)
	return slices.Clone(general.Responsibilities)
}

// Keywords returns the role's recommended keywords. Roles without dedicated
// keywords reuse their skills; roles with neither fall back to the general role.
func (t *Taxonomy) Keywords(role string) []string {
	if r, ok := t.role(role); ok {
		if len(r.Keywords) > 0 {
			return slices.Clone(r.Keywords)
		}
		if len(r.Skills) > 0 {
			return slices.Clone(r.Skills)
		}
	}
	general, _ := t.role(GeneralRole)
	return slices.Clone(general.Keywords)
}

// SoftSkills returns the canonical soft-skill phrases.
func (t *Taxonomy) SoftSkills() []string {
	return slices.Clone(t.softSkills)
}

// Certifications returns the canonical certification phrases.
func (t *Taxonomy) Certifications() []string {
	return slices.Clone(t.certifications)
}

// GeneralSkills returns the sorted union of every role's skills.
func (t *Taxonomy) GeneralSkills() []string {
	return slices.Clone(t.generalSkills)
}

func (t *Taxonomy) role(name string) (Role, bool) {
	i, ok := t.index[parsing.Normalize(name)]
	if !ok {
		return Role{}, false
	}
	return t.roles[i], true
}

// normalizeList lowercases, collapses and de-duplicates terms, dropping empties.
func normalizeList(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		term := parsing.Normalize(item)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		result = append(result, term)
	}
	return result
}

// cleanList keeps the original casing of display sentences but drops blanks.
func cleanList(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := parsing.CollapseWhitespace(item); s != "" {
			result = append(result, s)
		}
	}
	return result
}
