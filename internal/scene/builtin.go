package scene

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed scenes/*.yaml
var builtinFS embed.FS

// Builtin returns the embedded scene with the given name.
func Builtin(name string) (*Scene, error) {
	data, err := builtinFS.ReadFile("scenes/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scene: unknown builtin %q", name)
	}
	s, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: builtin %q: %w", name, err)
	}
	return s, nil
}

// Names returns the names of all embedded scenes in sorted order.
func Names() []string {
	entries, err := builtinFS.ReadDir("scenes")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
