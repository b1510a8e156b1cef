package compile

import "sort"

// DiffResult describes the semantic difference between two plans in
// terms of atom identities: which flags appeared, disappeared, changed
// their rendered arguments, or merely changed which settings produced
// them.
type DiffResult struct {
	Added             []string `json:"added"`
	Removed           []string `json:"removed"`
	Changed           []string `json:"changed"`
	ProvenanceChanged []string `json:"provenance_changed"`
}

// Empty reports whether the two plans were semantically identical.
func (d *DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 &&
		len(d.Changed) == 0 && len(d.ProvenanceChanged) == 0
}

// Diff compares two plans atom by atom. It powers the preview feature:
// showing what a configuration edit did to the command before running it.
func Diff(a, b *Plan) *DiffResult {
	indexA := indexAtoms(a)
	indexB := indexAtoms(b)

	result := &DiffResult{
		Added:             []string{},
		Removed:           []string{},
		Changed:           []string{},
		ProvenanceChanged: []string{},
	}

	for id := range indexB {
		if _, ok := indexA[id]; !ok {
			result.Added = append(result.Added, id)
		}
	}
	for id, atomA := range indexA {
		atomB, ok := indexB[id]
		if !ok {
			result.Removed = append(result.Removed, id)
			continue
		}
		switch {
		case !equalStrings(atomA.Args, atomB.Args):
			result.Changed = append(result.Changed, id)
		case !equalStrings(atomA.Sources, atomB.Sources):
			result.ProvenanceChanged = append(result.ProvenanceChanged, id)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Strings(result.Changed)
	sort.Strings(result.ProvenanceChanged)
	return result
}

func indexAtoms(p *Plan) map[string]Atom {
	index := make(map[string]Atom, len(p.Atoms))
	for _, atom := range p.Atoms {
		index[atom.ID] = atom
	}
	return index
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
