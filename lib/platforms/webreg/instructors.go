package webreg

import (
	"slices"
	"strings"
)

// ParseInstructors splits the PERSON_FULL_NAME column, which looks like
// "Smith, J  ;A123:Doe, R  ;B456", into instructor names. Duplicates are kept,
// use mergeInstructors to combine.
func ParseInstructors(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ":") {
		name, _, _ := strings.Cut(part, ";")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// mergeInstructors returns the sorted union of every list.
func mergeInstructors(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func subtractInstructors(names []string, base []string) []string {
	var out []string
	for _, n := range mergeInstructors(names) {
		if slices.Contains(base, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}
