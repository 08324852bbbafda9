package design

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chazu/bevel/pkg/gear"
	"github.com/chazu/bevel/pkg/macro"
)

// ParameterFilePrefix starts the name of every exported parameter file.
const ParameterFilePrefix = "BevelGearParameters_"

// Project names a design and the directory its files are written to.
type Project struct {
	Name    string `json:"name"`
	RootDir string `json:"root_dir"`
}

// DefaultProject is used when a script does not declare one.
func DefaultProject() Project {
	return Project{Name: "bevel", RootDir: "."}
}

// ParameterFile returns <root>/BevelGearParameters_<name>.toml.
func (p Project) ParameterFile() string {
	return filepath.Join(p.RootDir, ParameterFilePrefix+p.Name+".toml")
}

// Check rejects names that cannot be used as part of a file name.
func (p Project) Check() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is empty")
	}
	if strings.ContainsAny(p.Name, `/\`) {
		return fmt.Errorf("project name %q contains a path separator", p.Name)
	}
	if p.RootDir == "" {
		return fmt.Errorf("project %q has no root directory", p.Name)
	}
	return nil
}

// Design is the top-level immutable value produced by evaluation.
type Design struct {
	Project Project          `json:"project"`
	Spec    *gear.SolvedSpec `json:"-"`
	Macro   *macro.PairMacro `json:"-"`
	Version uint64           `json:"version"`
}

// New creates a design with the default project and nothing solved.
func New() *Design {
	return &Design{Project: DefaultProject()}
}

// Gear returns the gear instance, or false when no pair has been solved.
func (d *Design) Gear() (gear.Instance, bool) {
	if d == nil || d.Spec == nil {
		return gear.Instance{}, false
	}
	return d.Spec.MakeGear(), true
}

// Pinion returns the pinion instance, or false when no pair has been solved.
func (d *Design) Pinion() (gear.Instance, bool) {
	if d == nil || d.Spec == nil {
		return gear.Instance{}, false
	}
	return d.Spec.MakePinion(), true
}
