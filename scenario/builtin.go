package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadBuiltin reads a scenario shipped with the binary by name
func LoadBuiltin(name string) (*Scenario, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scenario %q not found (available: %s): %w",
			name, strings.Join(Builtins(), ", "), err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin scenario %q: %w", name, err)
	}
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}

// Builtins returns the names of all shipped scenarios, sorted
func Builtins() []string {
	entries, _ := builtinFS.ReadDir("builtin")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

// Open loads ref as a file path if it exists, otherwise as a builtin name
func Open(ref string) (*Scenario, error) {
	if _, err := os.Stat(ref); err == nil {
		return Load(ref)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	return LoadBuiltin(ref)
}
