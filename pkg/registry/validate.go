package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
)

// Validate checks a family in isolation: names, part identifiers, memory maps
// and algorithm references. It returns every violation joined together, or nil.
// Collisions with other families are checked by Register.
func Validate(f *target.ChipFamily) error {
	if f == nil {
		return &ValidationError{Rule: RuleInvalidName, Detail: "nil family"}
	}
	v := validator{family: f.Name}

	if strings.TrimSpace(f.Name) == "" {
		v.fail(&ValidationError{Rule: RuleInvalidName, Detail: "empty family name"})
	}

	algorithms := make(map[string]struct{}, len(f.FlashAlgorithms))
	for i := range f.FlashAlgorithms {
		name := f.FlashAlgorithms[i].Name
		if strings.TrimSpace(name) == "" {
			v.fail(&ValidationError{Rule: RuleInvalidName, Detail: fmt.Sprintf("flash algorithm #%d has no name", i)})
			continue
		}
		if _, dup := algorithms[name]; dup {
			v.fail(&ValidationError{Rule: RuleDuplicateAlgorithmName, Algorithm: name})
			continue
		}
		algorithms[name] = struct{}{}
	}

	names := make(map[string]string, len(f.Variants))
	parts := make(map[uint32]string, len(f.Variants))
	for i := range f.Variants {
		chip := &f.Variants[i]
		if strings.TrimSpace(chip.Name) == "" {
			v.fail(&ValidationError{Rule: RuleInvalidName, Detail: fmt.Sprintf("chip #%d has no name", i)})
		} else {
			key := target.FoldName(chip.Name)
			if first, dup := names[key]; dup {
				v.fail(&ValidationError{Rule: RuleDuplicateName, Chip: chip.Name, Detail: "conflicts with " + first})
			} else {
				names[key] = chip.Name
			}
		}

		if chip.Part != nil {
			if first, dup := parts[*chip.Part]; dup {
				v.fail(&ValidationError{Rule: RuleDuplicatePart, Chip: chip.Name, Part: chip.Part, Detail: "also used by " + first})
			} else {
				parts[*chip.Part] = chip.Name
			}
		}

		v.checkMemoryMap(chip)

		for _, ref := range chip.FlashAlgorithms {
			if _, ok := algorithms[ref]; !ok {
				v.fail(&ValidationError{Rule: RuleUnknownAlgorithmReference, Chip: chip.Name, Algorithm: ref})
			}
		}
	}
	return v.err()
}

type validator struct {
	family string
	errs   []error
}

func (v *validator) fail(e *ValidationError) {
	e.Family = v.family
	v.errs = append(v.errs, e)
}

func (v *validator) err() error {
	switch len(v.errs) {
	case 0:
		return nil
	case 1:
		return v.errs[0]
	}
	return errors.Join(v.errs...)
}

func (v *validator) checkMemoryMap(chip *target.Chip) {
	regions := chip.MemoryMap
	for i, r := range regions {
		if !r.Range.Valid() {
			v.fail(&ValidationError{
				Rule:   RuleInvalidMemoryRegion,
				Chip:   chip.Name,
				Region: describeRegion(r),
				Detail: "start must be below end",
			})
		}
		if r.Alias != "" && r.Name == "" {
			v.fail(&ValidationError{
				Rule:   RuleInvalidMemoryRegion,
				Chip:   chip.Name,
				Region: describeRegion(r),
				Detail: "alias regions must be named",
			})
		}
		for _, o := range regions[i+1:] {
			if !r.Range.Overlaps(o.Range) || r.AliasOf(o) {
				continue
			}
			v.fail(&ValidationError{
				Rule:   RuleOverlappingMemoryRegions,
				Chip:   chip.Name,
				Region: describeRegion(r),
				Other:  describeRegion(o),
			})
		}
	}
}

func describeRegion(r target.MemoryRegion) string {
	if r.Name != "" {
		return fmt.Sprintf("%s %q %s", r.Kind, r.Name, r.Range)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Range)
}
