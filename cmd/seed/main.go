package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"genai-maturity/backend/internal/catalog"
	"genai-maturity/backend/internal/config"
	"genai-maturity/backend/internal/questionnaire"
	"genai-maturity/backend/internal/store"
)

type seedOptions struct {
	configFile    string
	driver        string
	dsn           string
	questionsPath string
	resourcesPath string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{}
	root := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data into the maturity assessment database",
		Long: `Load the questionnaire and the Resource Hub catalog.

Examples:
  # Seed both with the built-in data
  seed all

  # Replace the resource catalog from a CSV file
  seed resources --resources ./resources.csv`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a config file (defaults to ./config.yaml when present)")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Database driver override: sqlite or postgres")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Database path (sqlite) or DSN (postgres) override")
	root.PersistentFlags().StringVar(&opts.questionsPath, "questions", "", "Questionnaire YAML file (defaults to the built-in question bank)")
	root.PersistentFlags().StringVar(&opts.resourcesPath, "resources", "", "Resource catalog CSV file (defaults to the built-in catalog)")

	root.AddCommand(
		&cobra.Command{
			Use:   "questions",
			Short: "Upsert the questionnaire",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(opts, func(db *store.Database, paths config.SeedConfig) error {
					return seedQuestions(cmd, db, paths.QuestionsPath)
				})
			},
		},
		&cobra.Command{
			Use:   "resources",
			Short: "Replace the resource catalog",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(opts, func(db *store.Database, paths config.SeedConfig) error {
					return seedResources(cmd, db, paths.ResourcesPath)
				})
			},
		},
		&cobra.Command{
			Use:   "all",
			Short: "Upsert the questionnaire and replace the resource catalog",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDatabase(opts, func(db *store.Database, paths config.SeedConfig) error {
					if err := seedQuestions(cmd, db, paths.QuestionsPath); err != nil {
						return err
					}
					return seedResources(cmd, db, paths.ResourcesPath)
				})
			},
		},
	)
	return root
}

func withDatabase(opts *seedOptions, fn func(db *store.Database, paths config.SeedConfig) error) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	cfg.Log.ConfigureLogger(logrus.StandardLogger())

	driver := cfg.Database.Driver
	if opts.driver != "" {
		driver = opts.driver
	}
	dsn := cfg.Database.ConnectionString()
	if opts.dsn != "" {
		dsn = opts.dsn
	}
	if driver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	paths := cfg.Seed
	if opts.questionsPath != "" {
		paths.QuestionsPath = opts.questionsPath
	}
	if opts.resourcesPath != "" {
		paths.ResourcesPath = opts.resourcesPath
	}

	db, err := store.Open(driver, dsn, true)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logrus.WithError(cerr).Warn("close database")
		}
	}()
	return fn(db, paths)
}

func seedQuestions(cmd *cobra.Command, db *store.Database, path string) error {
	count, err := questionnaire.Seed(db, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "questions: %d upserted\n", count)
	return nil
}

func seedResources(cmd *cobra.Command, db *store.Database, path string) error {
	resources := catalog.NewService(db)
	var (
		count int
		err   error
	)
	if path == "" {
		count, err = resources.LoadDefault()
	} else {
		count, err = resources.LoadFromCSV(path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "resources: %d loaded\n", count)
	return nil
}
