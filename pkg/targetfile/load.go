package targetfile

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
	"github.com/OpenTraceLab/OpenTraceTarget/pkg/tdl"
)

// Format identifies a definition file syntax.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTDL
)

// FormatOf picks the syntax from the file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".tdl":
		return FormatTDL
	default:
		return FormatUnknown
	}
}

// Parse decodes data in the given format. source is recorded on every
// family for diagnostics.
func Parse(data []byte, format Format, source string) ([]*target.ChipFamily, error) {
	var (
		families []*target.ChipFamily
		err      error
	)
	switch format {
	case FormatYAML:
		families, err = decode(bytes.NewReader(data))
	case FormatTDL:
		families, err = parseTDL(data, source)
	default:
		err = fmt.Errorf("unsupported definition format")
	}
	if err != nil {
		return nil, fmt.Errorf("targetfile: %s: %w", source, err)
	}
	for _, f := range families {
		f.Source = source
	}
	return families, nil
}

var tdlParser = sync.OnceValues(tdl.NewParser)

func parseTDL(data []byte, source string) ([]*target.ChipFamily, error) {
	parser, err := tdlParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseBytes(source, data)
	if err != nil {
		return nil, err
	}
	return file.Families()
}

// LoadFile parses one definition file.
func LoadFile(path string) ([]*target.ChipFamily, error) {
	switch FormatOf(path) {
	case FormatTDL:
		return loadTDL(path)
	case FormatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("targetfile: %w", err)
		}
		return Parse(data, FormatYAML, path)
	default:
		return nil, fmt.Errorf("targetfile: %s: unsupported file extension", path)
	}
}

func loadTDL(path string) ([]*target.ChipFamily, error) {
	parser, err := tdlParser()
	if err != nil {
		return nil, fmt.Errorf("targetfile: %w", err)
	}
	file, err := parser.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("targetfile: %s: %w", path, err)
	}
	families, err := file.Families()
	if err != nil {
		return nil, fmt.Errorf("targetfile: %s: %w", path, err)
	}
	for _, f := range families {
		f.Source = path
	}
	return families, nil
}

// LoadFiles parses the provided file paths in order.
func LoadFiles(paths ...string) ([]*target.ChipFamily, error) {
	var all []*target.ChipFamily
	for _, path := range paths {
		families, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, families...)
	}
	return all, nil
}

// LoadDir recursively loads all .yaml/.yml/.tdl files below root in lexical
// path order.
func LoadDir(root string) ([]*target.ChipFamily, error) {
	var all []*target.ChipFamily
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || FormatOf(path) == FormatUnknown {
			return nil
		}
		families, err := LoadFile(path)
		if err != nil {
			return err
		}
		all = append(all, families...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// Load loads a file or, for a directory, everything below it.
func Load(path string) ([]*target.ChipFamily, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("targetfile: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}
