package theme

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/spantrack/internal/engine/buffer"
	"github.com/dshills/spantrack/internal/engine/segment"
)

// ErrInvalidTheme reports a theme file that could not be interpreted.
var ErrInvalidTheme = errors.New("theme: invalid theme")

// Theme assigns a segment class to each highlight scope name. Scopes not
// present in the theme map to segment.DefaultClass.
type Theme struct {
	name   string
	scopes map[string]segment.Class
}

// themeFile is the TOML shape of a theme:
//
//	name = "plain"
//
//	[scopes]
//	comment = 1
//	keyword = 2
//	string  = 3
type themeFile struct {
	Name   string         `toml:"name"`
	Scopes map[string]int `toml:"scopes"`
}

// Parse builds a Theme from TOML data.
func Parse(data []byte) (*Theme, error) {
	var file themeFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	if file.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidTheme)
	}

	scopes := make(map[string]segment.Class, len(file.Scopes))
	for scope, class := range file.Scopes {
		if class <= int(segment.DefaultClass) {
			return nil, fmt.Errorf("%w: scope %q has non-positive class %d",
				ErrInvalidTheme, scope, class)
		}
		scopes[scope] = segment.Class(class)
	}
	return &Theme{name: file.Name, scopes: scopes}, nil
}

// Load reads and parses a theme file.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file %s: %w", path, err)
	}
	return Parse(data)
}

// Name returns the theme's declared name.
func (t *Theme) Name() string { return t.name }

// Class returns the class for a scope, or segment.DefaultClass when the
// theme does not style it.
func (t *Theme) Class(scope string) segment.Class {
	if class, ok := t.scopes[scope]; ok {
		return class
	}
	return segment.DefaultClass
}

// Scopes returns the styled scope names in sorted order.
func (t *Theme) Scopes() []string {
	out := make([]string, 0, len(t.scopes))
	for scope := range t.scopes {
		out = append(out, scope)
	}
	sort.Strings(out)
	return out
}

// ScopedRun is a classified region produced by a highlighter, still carrying
// its scope name.
type ScopedRun struct {
	Scope string
	Range buffer.Range
}

// Apply writes the runs into the segment map using this theme's scope
// classes. Runs for unstyled scopes reset their region to the default class.
func (t *Theme) Apply(m *segment.Map, runs []ScopedRun) {
	for _, run := range runs {
		m.SetRange(run.Range.Start, run.Range.End, t.Class(run.Scope))
	}
}
