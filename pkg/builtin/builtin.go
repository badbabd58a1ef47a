// Package builtin provides the chip families compiled into the binary.
package builtin

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/registry"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/targetfile"
)

//go:embed targets
var definitions embed.FS

var families = sync.OnceValues(func() ([]*target.ChipFamily, error) {
	return load(definitions, "targets")
})

func load(fsys fs.FS, dir string) ([]*target.ChipFamily, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("builtin: %w", err)
	}
	var out []*target.ChipFamily
	for _, e := range entries {
		format := targetfile.FormatOf(e.Name())
		if e.IsDir() || format == targetfile.FormatUnknown {
			continue
		}
		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("builtin: %w", err)
		}
		parsed, err := targetfile.Parse(data, format, "builtin:"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("builtin: %w", err)
		}
		out = append(out, parsed...)
	}
	return out, nil
}

// Families returns the builtin families. They are parsed on first use and
// shared afterwards; callers must not modify them.
func Families() ([]*target.ChipFamily, error) {
	return families()
}

// Register adds every builtin family to r as builtin data.
func Register(r *registry.Registry) error {
	fams, err := Families()
	if err != nil {
		return err
	}
	return r.RegisterAll(fams, registry.AsBuiltin())
}

// NewRegistry returns a registry preloaded with the builtin families.
func NewRegistry(opts ...registry.Option) (*registry.Registry, error) {
	r := registry.New(opts...)
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
