package file

import (
	"slices"
	"strings"

	"github.com/xraph/bastion/role"
)

func emptySnapshot() *snapshot {
	return &snapshot{
		byName:   make(map[string]int),
		byMember: make(map[string][]string),
	}
}

// buildSnapshot constructs both indices from scratch. Records are sorted
// by name; the member index is derived, so the two views always agree.
func buildSnapshot(records []role.Record) *snapshot {
	sorted := make([]role.Record, len(records))
	for i, r := range records {
		sorted[i] = r.Clone()
	}
	slices.SortFunc(sorted, func(a, b role.Record) int {
		return strings.Compare(a.Name, b.Name)
	})

	s := &snapshot{
		records:  sorted,
		byName:   make(map[string]int, len(sorted)),
		byMember: make(map[string][]string),
	}
	for i, r := range sorted {
		s.byName[r.Name] = i
		for _, m := range r.Members {
			s.byMember[m] = append(s.byMember[m], r.Name)
		}
	}
	for m := range s.byMember {
		slices.Sort(s.byMember[m])
	}
	return s
}

// withRecord returns a new snapshot with rec inserted or replaced.
func (s *snapshot) withRecord(rec role.Record) *snapshot {
	next := make([]role.Record, 0, len(s.records)+1)
	replaced := false
	for _, r := range s.records {
		if r.Name == rec.Name {
			next = append(next, rec)
			replaced = true
			continue
		}
		next = append(next, r)
	}
	if !replaced {
		next = append(next, rec)
	}
	return buildSnapshot(next)
}

// withoutRecord returns a new snapshot with the named record removed.
func (s *snapshot) withoutRecord(name string) *snapshot {
	next := make([]role.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.Name != name {
			next = append(next, r)
		}
	}
	return buildSnapshot(next)
}
