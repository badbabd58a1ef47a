// Package target holds the description model of debuggable chips: families,
// variants, memory maps and flash algorithm descriptors.
//
// Values are plain data. Constructing them performs no checks; consistency is
// enforced once, when a family is handed to a registry.
package target
