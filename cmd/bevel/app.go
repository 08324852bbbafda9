package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/engine"
	"github.com/chazu/bevel/pkg/params"
	"github.com/chazu/bevel/pkg/report"
	"github.com/chazu/bevel/pkg/sketch"
	"github.com/chazu/bevel/pkg/sketch/sdfx"
)

var (
	// ErrEvalFailed is returned when a script does not evaluate.
	ErrEvalFailed = errors.New("design script failed")

	// ErrBlocked is returned when validation errors prevent writing
	// output for a design.
	ErrBlocked = errors.New("design has validation errors")

	// ErrNoPair is returned when an operation needs a solved pair and
	// the script defines none.
	ErrNoPair = errors.New("design defines no bevel pair")
)

// App connects the engine, validation, report, parameter files and
// sketch output. Commands are thin wrappers around it.
type App struct {
	engine *engine.Engine
	kernel sketch.Kernel
	fs     afero.Fs
	logger *slog.Logger
	format report.Formatter
}

// EvalErrorData is a script error as shown to the user.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// FindingData is a validation finding as shown to the user.
type FindingData struct {
	Severity string `json:"severity"`
	Member   string `json:"member"`
	Message  string `json:"message"`
}

// EvalResult is everything a command prints about one design.
type EvalResult struct {
	Project  design.Project  `json:"project"`
	Rows     []report.Row    `json:"rows"`
	Errors   []EvalErrorData `json:"errors"`
	Findings []FindingData   `json:"findings"`

	design *design.Design
}

// Failed reports whether the script itself did not evaluate.
func (r EvalResult) Failed() bool {
	return len(r.Errors) > 0
}

// Blocked reports whether any finding is an error.
func (r EvalResult) Blocked() bool {
	for _, f := range r.Findings {
		if f.Severity == design.SeverityError.String() {
			return true
		}
	}
	return false
}

// NewApp creates an App with the sdfx kernel and the OS filesystem.
func NewApp(cfg *Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Eval.Timeout),
			engine.WithLogger(logger),
			engine.WithProject(cfg.DefaultProject()),
		),
		kernel: sdfx.New(),
		fs:     afero.NewOsFs(),
		logger: logger,
		format: report.Formatter{Precision: cfg.Report.Precision},
	}
}

func newResult() EvalResult {
	return EvalResult{
		Rows:     []report.Row{},
		Errors:   []EvalErrorData{},
		Findings: []FindingData{},
	}
}

// Evaluate runs a design script and returns the report rows and the
// findings of every validation tier.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	d, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		a.logger.Error("evaluate fatal error", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	a.describe(&result, d)
	return result
}

// describe fills the project, rows and findings of an evaluated design.
func (a *App) describe(result *EvalResult, d *design.Design) {
	result.design = d
	result.Project = d.Project
	if g, ok := d.Gear(); ok {
		p, _ := d.Pinion()
		result.Rows = a.format.Rows(g, p)
	}

	v := design.ValidateAll(d)
	for _, e := range v.Errors {
		result.Findings = append(result.Findings, FindingData{
			Severity: e.Severity.String(),
			Member:   string(e.Member),
			Message:  e.Message,
		})
	}
	for _, w := range v.Warnings {
		result.Findings = append(result.Findings, FindingData{
			Severity: design.SeverityWarning.String(),
			Member:   string(w.Member),
			Message:  w.Message,
		})
	}
	a.logger.Debug("design validated",
		"project", d.Project.Name,
		"errors", len(v.Errors),
		"warnings", len(v.Warnings),
	)
}

// checked evaluates source and returns the design only when it evaluated,
// has a pair and passed validation.
func (a *App) checked(source string) (EvalResult, *design.Design, error) {
	result := a.Evaluate(source)
	switch {
	case result.Failed():
		return result, nil, ErrEvalFailed
	case result.design.Spec == nil:
		return result, nil, ErrNoPair
	case result.Blocked():
		return result, nil, ErrBlocked
	}
	return result, result.design, nil
}

// Export evaluates source and writes its parameter file into the project
// root directory. Nothing is written when validation reports errors.
func (a *App) Export(source string) (EvalResult, string, error) {
	result, d, err := a.checked(source)
	if err != nil {
		return result, "", err
	}

	path, err := params.Save(a.fs, d.Project, d.Spec)
	if err != nil {
		a.logger.Error("export failed", "project", d.Project.Name, "error", err)
		return result, "", err
	}
	a.logger.Info("parameters exported", "project", d.Project.Name, "path", path)
	return result, path, nil
}

// Solve imports a parameter file, re-solves it and validates the result.
func (a *App) Solve(path string) (EvalResult, error) {
	result := newResult()

	f, err := params.Load(a.fs, path)
	if err != nil {
		return result, err
	}
	p, err := f.ProjectInfo()
	if err != nil {
		return result, err
	}
	s, err := f.Solve()
	if err != nil {
		return result, fmt.Errorf("solve %s: %w", path, err)
	}

	d := design.New()
	d.Project = p
	d.Spec = s
	a.describe(&result, d)
	return result, nil
}

// Sketch evaluates source and writes the axial section of the pair as a
// DXF drawing to out.
func (a *App) Sketch(source, out string) (EvalResult, *sketch.Sketch, error) {
	result, d, err := a.checked(source)
	if err != nil {
		return result, nil, err
	}

	sk, err := sketch.Build(d, a.kernel)
	if err != nil {
		a.logger.Error("sketch failed", "error", err)
		return result, nil, err
	}
	if err := sk.Draw(sdfx.NewDXF(out)); err != nil {
		return result, nil, err
	}
	a.logger.Info("section written", "project", d.Project.Name, "path", out)
	return result, sk, nil
}

// Design evaluates source and returns the checked design, for commands
// that store it.
func (a *App) Design(source string) (EvalResult, *design.Design, error) {
	return a.checked(source)
}
