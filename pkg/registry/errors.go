package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("registry: chip not found")
	// ErrAmbiguous is matched by every *AmbiguousError.
	ErrAmbiguous = errors.New("registry: ambiguous chip query")
	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("registry: validation failed")

	ErrDuplicateFamilyName       = errors.New("duplicate family name")
	ErrDuplicateName             = errors.New("duplicate chip name")
	ErrDuplicatePart             = errors.New("duplicate part identifier")
	ErrDuplicateAlgorithmName    = errors.New("duplicate flash algorithm name")
	ErrOverlappingMemoryRegions  = errors.New("overlapping memory regions")
	ErrUnknownAlgorithmReference = errors.New("unknown flash algorithm reference")
	ErrInvalidName               = errors.New("invalid name")
	ErrInvalidMemoryRegion       = errors.New("invalid memory region")
)

// Rule identifies the validation rule a family violated.
type Rule int

const (
	RuleDuplicateFamilyName Rule = iota + 1
	RuleDuplicateName
	RuleDuplicatePart
	RuleDuplicateAlgorithmName
	RuleOverlappingMemoryRegions
	RuleUnknownAlgorithmReference
	RuleInvalidName
	RuleInvalidMemoryRegion
)

var ruleSentinels = map[Rule]error{
	RuleDuplicateFamilyName:       ErrDuplicateFamilyName,
	RuleDuplicateName:             ErrDuplicateName,
	RuleDuplicatePart:             ErrDuplicatePart,
	RuleDuplicateAlgorithmName:    ErrDuplicateAlgorithmName,
	RuleOverlappingMemoryRegions:  ErrOverlappingMemoryRegions,
	RuleUnknownAlgorithmReference: ErrUnknownAlgorithmReference,
	RuleInvalidName:               ErrInvalidName,
	RuleInvalidMemoryRegion:       ErrInvalidMemoryRegion,
}

func (r Rule) String() string {
	if err, ok := ruleSentinels[r]; ok {
		return err.Error()
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// ValidationError reports one rule violation of a family. The fields that
// do not apply to the rule are left empty.
type ValidationError struct {
	Rule   Rule
	Family string
	Chip   string
	// Region and Other name the offending region pair.
	Region    string
	Other     string
	Algorithm string
	Part      *uint32
	Detail    string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "registry: family %q", e.Family)
	if e.Chip != "" {
		fmt.Fprintf(&b, ", chip %q", e.Chip)
	}
	fmt.Fprintf(&b, ": %s", e.Rule)
	switch {
	case e.Algorithm != "":
		fmt.Fprintf(&b, " %q", e.Algorithm)
	case e.Part != nil:
		fmt.Fprintf(&b, " 0x%X", *e.Part)
	case e.Region != "" && e.Other != "":
		fmt.Fprintf(&b, " %s and %s", e.Region, e.Other)
	case e.Region != "":
		fmt.Fprintf(&b, " %s", e.Region)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, " (%s)", e.Detail)
	}
	return b.String()
}

// Unwrap exposes ErrValidationFailed and the rule sentinel to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidationFailed}
	if s, ok := ruleSentinels[e.Rule]; ok {
		errs = append(errs, s)
	}
	return errs
}

// NotFoundError is returned when no chip matches a query.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registry: no chip matches %s", e.Query)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Candidate is one chip matched by an ambiguous query.
type Candidate struct {
	Family string
	Chip   string
}

func (c Candidate) String() string {
	return c.Family + "/" + c.Chip
}

// AmbiguousError is returned when a query matches more than one chip.
// Candidates are sorted by chip name, then family.
type AmbiguousError struct {
	Query      string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	return fmt.Sprintf("registry: %s matches %d chips: %s", e.Query, len(e.Candidates), strings.Join(names, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Violations flattens an error returned by Register or Validate into its
// individual rule violations.
func Violations(err error) []*ValidationError {
	var out []*ValidationError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *ValidationError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}
