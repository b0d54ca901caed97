package analysis

import "sort"

// Compare splits reference into the items present in have (matched) and the
// items absent from it (missing). Both results are de-duplicated, sorted, and
// non-nil. matched and missing never intersect.
func Compare(have, reference []string) (matched, missing []string) {
	present := make(map[string]bool, len(have))
	for _, item := range have {
		present[item] = true
	}

	matched = make([]string, 0)
	missing = make([]string, 0)
	seen := make(map[string]bool, len(reference))
	for _, item := range reference {
		if seen[item] {
			continue
		}
		seen[item] = true
		if present[item] {
			matched = append(matched, item)
		} else {
			missing = append(missing, item)
		}
	}

	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}

// sortedCopy returns a sorted copy of items.
func sortedCopy(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}
