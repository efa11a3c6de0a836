package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
	"github.com/AntonStoeckl/dynamic-query-go/fixture/sqlengine"
	"github.com/AntonStoeckl/dynamic-query-go/scenario"
)

const (
	flagOut   = "out"
	flagIn    = "in"
	flagClear = "clear"

	snapshotFileExtension = ".json"
)

var ErrSnapshotsDiffer = errors.New("snapshots differ")

// app carries the state shared by all commands, filled in by the root command's PersistentPreRunE.
type app struct {
	newLogger func(verbose bool) (*zap.Logger, error)

	cfg    Config
	zap    *zap.Logger
	logger zapLogger
}

func newRootCmd() *cobra.Command {
	return (&app{newLogger: newZapLogger}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fixturegen",
		Short:         "Capture, clear and seed database fixtures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger, err := a.newLogger(cfg.Verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			a.cfg = cfg
			a.zap = logger
			a.logger = zapLogger{sugar: logger.Sugar()}

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.zap != nil {
				_ = a.zap.Sync()
			}
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		a.migrateCmd(),
		a.captureCmd(),
		a.clearCmd(),
		a.seedCmd(),
		a.diffCmd(),
		a.scenariosCmd(),
	)

	return rootCmd
}

func (a *app) schema() (fixture.Schema, error) {
	if a.cfg.SchemaFile == "" {
		return fixture.Schema{}, ErrMissingSchemaFile
	}

	return fixture.LoadSchemaFile(a.cfg.SchemaFile)
}

// withEngine loads the schema, connects and runs fn; the connection is released afterwards.
func (a *app) withEngine(cmd *cobra.Command, fn func(engine *sqlengine.Engine, schema fixture.Schema) error) error {
	if err := a.cfg.validateDatabase(); err != nil {
		return err
	}

	schema, err := a.schema()
	if err != nil {
		return err
	}

	engine, closeDB, err := openEngine(cmd.Context(), a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer closeDB()

	return fn(engine, schema)
}

func (a *app) migrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the SQL migrations in --migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return runMigrations(a.cfg, true, a.logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return runMigrations(a.cfg, false, a.logger)
			},
		},
	)

	return migrateCmd
}

func (a *app) captureCmd() *cobra.Command {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture all tables of the schema into a snapshot file, or stdout without --out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString(flagOut)

			return a.withEngine(cmd, func(engine *sqlengine.Engine, schema fixture.Schema) error {
				snapshot, err := engine.GetDataSetFromDb(cmd.Context(), schema)
				if err != nil {
					return err
				}

				if out == "" {
					return fixture.EncodeSnapshot(cmd.OutOrStdout(), snapshot)
				}

				if err = fixture.WriteSnapshotFile(out, snapshot); err != nil {
					return err
				}

				a.logger.Info("snapshot written", "path", out, "row_count", snapshot.TotalRows())

				return nil
			})
		},
	}

	captureCmd.Flags().String(flagOut, "", "snapshot file to write")

	return captureCmd
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all rows of all tables of the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd, func(engine *sqlengine.Engine, schema fixture.Schema) error {
				return engine.ClearDatabase(cmd.Context(), schema)
			})
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert all rows of a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, _ := cmd.Flags().GetString(flagIn)
			clearFirst, _ := cmd.Flags().GetBool(flagClear)

			snapshot, err := fixture.ReadSnapshotFile(in)
			if err != nil {
				return err
			}

			return a.withEngine(cmd, func(engine *sqlengine.Engine, schema fixture.Schema) error {
				if clearFirst {
					if err := engine.ClearDatabase(cmd.Context(), schema); err != nil {
						return err
					}
				}

				return engine.SeedDatabase(cmd.Context(), snapshot)
			})
		},
	}

	seedCmd.Flags().String(flagIn, "", "snapshot file to read")
	seedCmd.Flags().Bool(flagClear, false, "clear the schema before seeding")
	_ = seedCmd.MarkFlagRequired(flagIn)

	return seedCmd
}

func (a *app) diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff WANT GOT",
		Short: "Compare two snapshot files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := fixture.ReadSnapshotFile(args[0])
			if err != nil {
				return err
			}

			got, err := fixture.ReadSnapshotFile(args[1])
			if err != nil {
				return err
			}

			if diff := fixture.Diff(want, got); diff != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "snapshot mismatch (-want +got):\n%s", diff)
				return ErrSnapshotsDiffer
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "snapshots are equal")

			return nil
		},
	}
}

func (a *app) scenariosCmd() *cobra.Command {
	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List or load the scenario snapshot files in --snapshot-dir",
	}

	scenariosCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the generated scenarios with their row counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := scenarioNames(a.cfg.SnapshotDir)
				if err != nil {
					return err
				}

				store := scenario.FileStore{Dir: a.cfg.SnapshotDir}
				for _, name := range names {
					snapshot, err := store.Load(name)
					if err != nil {
						return err
					}

					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, snapshot.TotalRows())
				}

				return nil
			},
		},
		&cobra.Command{
			Use:   "load NAME",
			Short: "Clear the schema and restore the snapshot of a scenario",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withEngine(cmd, func(engine *sqlengine.Engine, schema fixture.Schema) error {
					registry, err := scenario.NewRegistry()
					if err != nil {
						return err
					}

					runner, err := scenario.NewRunner(
						engine,
						schema,
						scenario.FileStore{Dir: a.cfg.SnapshotDir},
						registry,
						scenario.WithLogger(a.logger),
					)
					if err != nil {
						return err
					}

					return runner.Load(cmd.Context(), args[0])
				})
			},
		},
	)

	return scenariosCmd
}

// scenarioNames returns the sorted names of the snapshot files in dir.
func scenarioNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != snapshotFileExtension {
			continue
		}

		names = append(names, strings.TrimSuffix(entry.Name(), snapshotFileExtension))
	}

	slices.Sort(names)

	return names, nil
}
