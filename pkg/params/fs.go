package params

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
)

// Save writes the parameter file to p.ParameterFile(), creating the root
// directory when needed, and returns the path written.
func Save(fs afero.Fs, p design.Project, s *gear.SolvedSpec) (string, error) {
	if err := p.Check(); err != nil {
		return "", fmt.Errorf("params: %w", err)
	}
	if err := fs.MkdirAll(p.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("params: create %s: %w", p.RootDir, err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, p, s); err != nil {
		return "", err
	}

	path := p.ParameterFile()
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("params: write %s: %w", path, err)
	}
	return path, nil
}

// Load reads and decodes the parameter file at path.
func Load(fs afero.Fs, path string) (File, error) {
	f, err := fs.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("params: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// ReadProject decodes only the [[project]] table. It is used when a
// project directory is picked and the name must be recovered from the
// file inside it.
func ReadProject(r io.Reader) (design.Project, error) {
	f, err := Decode(r)
	if err != nil {
		return design.Project{}, err
	}
	return f.ProjectInfo()
}

// Find lists the parameter files directly inside dir, sorted by name.
func Find(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("params: list %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, design.ParameterFilePrefix) || filepath.Ext(name) != ".toml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
