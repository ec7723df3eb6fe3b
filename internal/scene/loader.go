package scene

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	s, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return s, nil
}

// Resolve finds a scene by file path or name. An existing path is loaded as
// is; otherwise <ref>.yaml is looked up under ~/.boxtop/scenes, under
// ./scenes and among the builtins. A file that exists but fails to parse is
// an error, not a fallthrough.
func Resolve(ref string) (*Scene, error) {
	if fileExists(ref) {
		return Load(ref)
	}
	if p := userScenePath(ref + ".yaml"); p != "" && fileExists(p) {
		return Load(p)
	}
	if p := filepath.Join("scenes", ref+".yaml"); fileExists(p) {
		return Load(p)
	}
	if s, err := Builtin(ref); err == nil {
		return s, nil
	}
	return nil, fmt.Errorf("scene: %q is neither a file nor a builtin scene", ref)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// userScenePath returns the path to a user scene file, or empty if home is
// unavailable.
func userScenePath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".boxtop", "scenes", filename)
}
