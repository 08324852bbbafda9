package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazu/bevel/pkg/store"
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	asJSON     bool

	cfg    *Config
	logger *slog.Logger
	app    *App

	openStore func(dsn string, logger *slog.Logger) (store.Store, error)
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout: stdout,
		stderr: stderr,
		openStore: func(dsn string, logger *slog.Logger) (store.Store, error) {
			return store.NewSQLiteStore(dsn, logger)
		},
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "bevel",
		Short:             "Derive bevel gear pairs from design scripts",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (yaml or toml)")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("db", "", "design library database (overrides store.dsn)")
	pf.BoolVar(&c.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		c.evalCommand(),
		c.solveCommand(),
		c.exportCommand(),
		c.sketchCommand(),
		c.storeCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(c.configPath, cmd.Flags())
	if err != nil {
		return &configError{err: err}
	}
	c.cfg = cfg
	c.logger = SetupLogger(cfg, c.stderr)
	c.app = NewApp(cfg, c.logger)
	c.logger.Debug("bevel starting", "version", Version, "command", cmd.CommandPath())
	return nil
}

func readScript(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// finish prints r and turns script failures into an error for the exit
// code.
func (c *cli) finish(r EvalResult, err error) error {
	if perr := printResult(c.stdout, r, c.asJSON); perr != nil {
		return perr
	}
	if err == nil && r.Failed() {
		return ErrEvalFailed
	}
	return err
}

// =============================================================================
// Design Commands
// =============================================================================

func (c *cli) evalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <script.bevel>",
		Short: "Evaluate a design script and print its derived values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				return err
			}
			return c.finish(c.app.Evaluate(src), nil)
		},
	}
}

func (c *cli) solveCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "solve --params <file.toml>",
		Short: "Import a parameter file, re-solve it and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.app.Solve(path)
			if err != nil {
				return err
			}
			return c.finish(r, nil)
		},
	}
	cmd.Flags().StringVar(&path, "params", "", "parameter file to import")
	_ = cmd.MarkFlagRequired("params")
	return cmd
}

func (c *cli) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <script.bevel>",
		Short: "Write the parameter file of a design into its project directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				return err
			}
			r, path, err := c.app.Export(src)
			if perr := c.finish(r, err); perr != nil {
				return perr
			}
			if !c.asJSON {
				fmt.Fprintf(c.stdout, "\nwrote %s\n", path)
			}
			return nil
		},
	}
}

func (c *cli) sketchCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sketch <script.bevel>",
		Short: "Draw the axial section of a pair as DXF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				return err
			}
			r, sk, err := c.app.Sketch(src, out)
			if perr := c.finish(r, err); perr != nil {
				return perr
			}
			if !c.asJSON {
				gearFace, pinionFace := sk.Clearances()
				fmt.Fprintf(c.stdout, "\ngear face to pinion root: %.6g\n", gearFace)
				fmt.Fprintf(c.stdout, "pinion face to gear root: %.6g\n", pinionFace)
				fmt.Fprintf(c.stdout, "wrote %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "section.dxf", "DXF file to write")
	return cmd
}

// =============================================================================
// Store Commands
// =============================================================================

func (c *cli) withStore(fn func(ctx context.Context, s store.Store) error) error {
	s, err := c.openStore(c.cfg.Store.DSN, c.logger)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(context.Background(), s)
}

func isStoreError(err error) bool {
	var se *store.StoreError
	return errors.As(err, &se)
}

func (c *cli) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the design library",
	}
	cmd.AddCommand(
		c.storeSaveCommand(),
		c.storeListCommand(),
		c.storeShowCommand(),
		c.storeDeleteCommand(),
	)
	return cmd
}

func (c *cli) storeSaveCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "save <script.bevel>",
		Short: "Evaluate a design script and save it to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				return err
			}
			r, d, err := c.app.Design(src)
			if err != nil {
				return c.finish(r, err)
			}
			return c.withStore(func(ctx context.Context, s store.Store) error {
				rec, err := s.SaveDesign(ctx, d.Project, d.Spec)
				if force && errors.Is(err, store.ErrDuplicateName) {
					rec, err = s.UpdateDesign(ctx, d.Project, d.Spec)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "saved %s (%s)\n", rec.Project.Name, rec.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace a design with the same project name")
	return cmd
}

func (c *cli) storeListCommand() *cobra.Command {
	var opts store.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(ctx context.Context, s store.Store) error {
				records, err := s.ListDesigns(ctx, opts)
				if err != nil {
					return err
				}
				if c.asJSON {
					enc := json.NewEncoder(c.stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(records)
				}
				tw := tabwriter.NewWriter(c.stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tROOT DIR\tUPDATED")
				for _, rec := range records {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", rec.Project.Name, rec.Project.RootDir, rec.UpdatedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListOptions().Limit, "maximum number of designs")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of designs to skip")
	return cmd
}

func (c *cli) storeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Re-solve a saved design and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(ctx context.Context, s store.Store) error {
				rec, err := s.GetDesign(ctx, args[0])
				if err != nil {
					return err
				}
				d, err := rec.Design()
				if err != nil {
					return err
				}
				r := newResult()
				c.app.describe(&r, d)
				return c.finish(r, nil)
			})
		},
	}
}

func (c *cli) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a design from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(func(ctx context.Context, s store.Store) error {
				if err := s.DeleteDesign(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.stdout, "deleted %s\n", args[0])
				return nil
			})
		},
	}
}
