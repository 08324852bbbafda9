package store

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/gear"
	"github.com/chazu/bevel/pkg/params"
)

// Store defines the persistence interface for the design library.
type Store interface {
	// SaveDesign inserts a new record. A second record for the same
	// project name fails with ErrDuplicateName.
	SaveDesign(ctx context.Context, p design.Project, s *gear.SolvedSpec) (*Record, error)
	// UpdateDesign replaces the parameters of an existing record.
	UpdateDesign(ctx context.Context, p design.Project, s *gear.SolvedSpec) (*Record, error)
	GetDesign(ctx context.Context, name string) (*Record, error)
	ListDesigns(ctx context.Context, opts ListOptions) ([]Record, error)
	DeleteDesign(ctx context.Context, name string) error
	Close() error
}

// Record is one stored design.
type Record struct {
	ID        string         `json:"id"`
	Project   design.Project `json:"project"`
	Params    string         `json:"params"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// File decodes the stored parameter text.
func (r Record) File() (params.File, error) {
	f, err := params.Decode(strings.NewReader(r.Params))
	if err != nil {
		return params.File{}, NewStoreError("Decode", "design", r.Project.Name, err.Error(), ErrInvalidData)
	}
	return f, nil
}

// Solve re-solves the stored parameters.
func (r Record) Solve() (*gear.SolvedSpec, error) {
	f, err := r.File()
	if err != nil {
		return nil, err
	}
	return f.Solve()
}

// Design rebuilds a design value from the record. The macro is not
// stored, so only the project and the solved pair are restored.
func (r Record) Design() (*design.Design, error) {
	s, err := r.Solve()
	if err != nil {
		return nil, err
	}
	d := design.New()
	d.Project = r.Project
	d.Spec = s
	return d, nil
}

func encodeParams(p design.Project, s *gear.SolvedSpec) (string, error) {
	var buf bytes.Buffer
	if err := params.Encode(&buf, p, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ListOptions pages ListDesigns.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListOptions returns default list options.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Limit:  100,
		Offset: 0,
	}
}

// Normalize ensures list options have valid values.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = 100
	}
	if o.Limit > 1000 {
		o.Limit = 1000
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
