package registry

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
)

// Target is a resolved chip: the variant, its family and the flash
// algorithms it references, in the chip's declaration order. It points into
// registry-owned data and must be treated as read-only.
type Target struct {
	Family     *target.ChipFamily
	Chip       *target.Chip
	Algorithms []*target.FlashAlgorithm
}

// DefaultAlgorithm returns the algorithm flagged as default, or the first
// one when none is flagged.
func (t *Target) DefaultAlgorithm() (*target.FlashAlgorithm, bool) {
	if len(t.Algorithms) == 0 {
		return nil, false
	}
	for _, a := range t.Algorithms {
		if a.Default {
			return a, true
		}
	}
	return t.Algorithms[0], true
}

// AlgorithmFor returns the algorithm that programs addr. Default algorithms
// win over others covering the same address.
func (t *Target) AlgorithmFor(addr uint64) (*target.FlashAlgorithm, bool) {
	var found *target.FlashAlgorithm
	for _, a := range t.Algorithms {
		if !a.Covers(addr) {
			continue
		}
		if a.Default {
			return a, true
		}
		if found == nil {
			found = a
		}
	}
	return found, found != nil
}

func resolve(f *target.ChipFamily, c *target.Chip) *Target {
	t := &Target{Family: f, Chip: c}
	for _, name := range c.FlashAlgorithms {
		if a, ok := f.Algorithm(name); ok {
			t.Algorithms = append(t.Algorithms, a)
		}
	}
	return t
}

type match struct {
	family *target.ChipFamily
	chip   *target.Chip
}

func (r *Registry) collect(pred func(*target.Chip) bool) []match {
	var out []match
	for _, e := range r.families {
		for i := range e.family.Variants {
			if pred(&e.family.Variants[i]) {
				out = append(out, match{family: e.family, chip: &e.family.Variants[i]})
			}
		}
	}
	return out
}

func pick(query string, matches []match) (*Target, error) {
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Query: query}
	case 1:
		return resolve(matches[0].family, matches[0].chip), nil
	}
	sortMatches(matches)
	amb := &AmbiguousError{Query: query, Candidates: make([]Candidate, len(matches))}
	for i, m := range matches {
		amb.Candidates[i] = Candidate{Family: m.family.Name, Chip: m.chip.Name}
	}
	return nil, amb
}

// ChipByName resolves a chip by name, ignoring case.
//
// An exact match always wins. Without one, a query contained in exactly one
// chip name selects that chip; when it is contained in several the result is
// an *AmbiguousError listing all of them.
func (r *Registry) ChipByName(name string) (*Target, error) {
	query := fmt.Sprintf("name %q", name)
	if strings.TrimSpace(name) == "" {
		return nil, &NotFoundError{Query: query}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := target.FoldName(name)
	exact := r.collect(func(c *target.Chip) bool {
		return target.FoldName(c.Name) == needle
	})
	if len(exact) > 0 {
		return pick(query, exact)
	}

	return pick(query, r.collect(func(c *target.Chip) bool {
		return strings.Contains(target.FoldName(c.Name), needle)
	}))
}

// ChipByPart resolves a chip by its part identifier. Chips of different
// families sharing the identifier yield an *AmbiguousError.
func (r *Registry) ChipByPart(part uint32) (*Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pick(fmt.Sprintf("part 0x%X", part), r.collect(func(c *target.Chip) bool {
		return c.Part != nil && *c.Part == part
	}))
}

// Families yields the registered families ordered by name. The set is
// captured when iteration starts.
func (r *Registry) Families() iter.Seq[*target.ChipFamily] {
	return func(yield func(*target.ChipFamily) bool) {
		r.mu.RLock()
		families := make([]*target.ChipFamily, 0, len(r.families))
		for _, e := range r.families {
			families = append(families, e.family)
		}
		r.mu.RUnlock()

		slices.SortFunc(families, func(a, b *target.ChipFamily) int {
			return compareNames(a.Name, b.Name)
		})
		for _, f := range families {
			if !yield(f) {
				return
			}
		}
	}
}

// Chips yields every registered chip with its family, ordered by chip name
// and then family name.
func (r *Registry) Chips() iter.Seq2[*target.ChipFamily, *target.Chip] {
	return func(yield func(*target.ChipFamily, *target.Chip) bool) {
		r.mu.RLock()
		matches := r.collect(func(*target.Chip) bool { return true })
		r.mu.RUnlock()

		sortMatches(matches)
		for _, m := range matches {
			if !yield(m.family, m.chip) {
				return
			}
		}
	}
}

func sortMatches(matches []match) {
	slices.SortFunc(matches, func(a, b match) int {
		return cmp.Or(
			compareNames(a.chip.Name, b.chip.Name),
			compareNames(a.family.Name, b.family.Name),
		)
	})
}

// compareNames orders by folded name, falling back to byte order so the
// result is total.
func compareNames(a, b string) int {
	return cmp.Or(
		strings.Compare(target.FoldName(a), target.FoldName(b)),
		strings.Compare(a, b),
	)
}
