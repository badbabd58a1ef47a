// Package targetfile loads chip family definitions from YAML (.yaml, .yml)
// and target description (.tdl) files. Parsed families are not validated;
// hand them to a registry.
package targetfile
