package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"
	"time"
)

var migrationTemplate = template.Must(template.New("migration").Parse(
	`-- {{.Name}}{{if .Down}} (rollback){{end}}
-- {{.Description}}

`))

// File is a newly created up/down migration pair
type File struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// Create writes an empty up/down pair named <unix-seconds>_<name>. The
// 000001-style files shipped with the repo sort before any created one.
func Create(dir, name, description string, now time.Time) (*File, error) {
	slug := Slug(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations dir: %w", err)
	}

	version := fmt.Sprintf("%d", now.Unix())
	base := filepath.Join(dir, version+"_"+slug)
	f := &File{Version: version, Name: slug, UpPath: base + ".up.sql", DownPath: base + ".down.sql"}

	for _, side := range []struct {
		path string
		down bool
	}{{f.UpPath, false}, {f.DownPath, true}} {
		if err := writeTemplate(side.path, name, description, side.down); err != nil {
			_ = os.Remove(f.UpPath)
			return nil, err
		}
	}
	return f, nil
}

func writeTemplate(path, name, description string, down bool) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return migrationTemplate.Execute(out, struct {
		Name, Description string
		Down              bool
	}{name, description, down})
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases name and collapses everything else into single underscores
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// List returns the migration base names found in dir, sorted
func List(dir string) ([]string, error) {
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ups))
	for _, p := range ups {
		names = append(names, strings.TrimSuffix(filepath.Base(p), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}
