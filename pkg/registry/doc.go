// Package registry indexes chip families and resolves a chip name or part
// identifier to a validated target description.
//
// # Overview
//
// Families come from two places: definitions compiled into the binary
// (package builtin) and definition files loaded at runtime (package
// targetfile). Both end up in the same Registry:
//
//	reg := registry.New(registry.WithLogger(logger))
//	if err := builtin.Register(reg); err != nil {
//		return err
//	}
//	families, err := targetfile.LoadDir("targets/")
//	if err != nil {
//		return err
//	}
//	for _, f := range families {
//		if err := reg.Register(f, registry.AllowOverride()); err != nil {
//			return err
//		}
//	}
//	t, err := reg.ChipByName("nrf52832_xxaa")
//
// # Validation
//
// Register validates a family as a unit before storing it:
//   - the family, chip and algorithm names are non-empty
//   - chip names are unique ignoring case, part identifiers are unique
//   - memory regions are non-empty and only overlap when they are declared
//     as aliases of each other
//   - every algorithm a chip references exists in the family
//
// A family with any violation is rejected whole and the registry is left
// untouched. The returned error wraps one *ValidationError per violation;
// use errors.Is with the Err* sentinels or Violations to inspect it.
//
// # Overrides
//
// Whether a family may replace one that is already registered is decided
// by the caller per Register call:
//   - an identical family is accepted and changes nothing
//   - an external family replaces a previously loaded external family
//   - an external family replaces a builtin family only with AllowOverride
//   - a builtin family never replaces anything
//
// # Lookups
//
// ChipByName prefers exact case-insensitive matches and falls back to a
// unique substring match. ChipByPart matches the part identifier exactly.
// Both return *AmbiguousError rather than guessing when several chips
// match. Families and Chips enumerate the contents in name order.
//
// # Concurrency
//
// A Registry is safe for concurrent use. Registered families are copies
// owned by the registry and never change; a later Register for the same
// name swaps the whole family.
package registry
