package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specroute/specroute/models"
	"github.com/specroute/specroute/routes"
	"github.com/specroute/specroute/validator"
)

// ValidateConfig captures all inputs that influence the validate command
// after merging defaults, config file values, and CLI overrides.
type ValidateConfig struct {
	Path       string
	Validators []string
	Strict     bool
	Include    []string
	ConfigPath string
	Verbose    bool
}

var validateRunner = runValidate

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate OpenAPI contract documents and report per-file results",
		Long: "Validate every contract document under a path: run the validator chain, " +
			"parse the routing model, and build the route table. Reports per-file " +
			"pass/fail plus an aggregate count; exits non-zero when any file failed.",
		Example: strings.TrimSpace(`  specroute validate --path ./specs
  specroute validate --path ./specs --validator standards --strict
  specroute --config specroute.yaml validate`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveValidateConfig(cmd)
			if err != nil {
				return err
			}
			return validateRunner(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	addValidateFlags(cmd.Flags())
	return cmd
}

func addValidateFlags(flags *pflag.FlagSet) {
	flags.StringP("path", "p", "", "Contract file or directory with OpenAPI contracts")
	flags.StringSlice("validator", nil, "Name of an extra registry validator (repeatable)")
	flags.Bool("strict", false, "Enable strict model validation")
	flags.StringSlice("include", nil, "Discovery globs for directory walks (default **/*.json)")
}

func resolveValidateConfig(cmd *cobra.Command) (*ValidateConfig, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	fileCfg, err := loadConfig(strings.TrimSpace(configPath))
	if err != nil {
		return nil, err
	}

	cfg := &ValidateConfig{
		Path:       fileCfg.Path,
		Validators: fileCfg.Validators,
		Strict:     fileCfg.Strict,
		Include:    fileCfg.Include,
		ConfigPath: strings.TrimSpace(configPath),
	}
	if err := applyValidateFlagOverrides(cmd.Flags(), cfg); err != nil {
		return nil, err
	}

	cfg.Path = strings.TrimSpace(cfg.Path)
	if cfg.Path == "" {
		return nil, newUsageError("validate: --path is required (set via flag or config file)")
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.json"}
	}
	return cfg, nil
}

func applyValidateFlagOverrides(flags *pflag.FlagSet, cfg *ValidateConfig) error {
	if flags.Changed("path") {
		value, err := flags.GetString("path")
		if err != nil {
			return err
		}
		cfg.Path = strings.TrimSpace(value)
	}
	if flags.Changed("validator") {
		value, err := flags.GetStringSlice("validator")
		if err != nil {
			return err
		}
		cfg.Validators = value
	}
	if flags.Changed("strict") {
		value, err := flags.GetBool("strict")
		if err != nil {
			return err
		}
		cfg.Strict = value
	}
	if flags.Changed("include") {
		value, err := flags.GetStringSlice("include")
		if err != nil {
			return err
		}
		cfg.Include = value
	}
	if flags.Changed("verbose") {
		value, err := flags.GetBool("verbose")
		if err != nil {
			return err
		}
		cfg.Verbose = value
	}
	return nil
}

const separatorWidth = 79

func printSeparator(out io.Writer, char string) {
	fmt.Fprintln(out, strings.Repeat(char, separatorWidth))
}

func runValidate(ctx context.Context, cfg *ValidateConfig, out io.Writer) error {
	// Resolve validator names once so an unknown name fails the whole run
	// instead of failing every file.
	extra := make([]validator.Validator, 0, len(cfg.Validators))
	for _, name := range cfg.Validators {
		v, err := validator.New(name)
		if err != nil {
			return newUsageError(fmt.Sprintf("validate: %v", err))
		}
		extra = append(extra, v)
	}

	files, err := discoverContracts(cfg.Path, cfg.Include)
	if err != nil {
		return err
	}

	names := append([]string{"default"}, cfg.Validators...)
	printSeparator(out, "=")
	fmt.Fprintf(out, "OpenAPI specs root path: %s\n", cfg.Path)
	fmt.Fprintf(out, "Validators: %s\n", strings.Join(names, ", "))
	printSeparator(out, "=")

	var modelOpts []models.Option
	if cfg.Strict {
		modelOpts = append(modelOpts, models.WithStrictValidation())
	}

	passed, failed := 0, 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "File: %s\n", file)
		if err := buildOne(file, extra, modelOpts); err != nil {
			fmt.Fprintf(out, "\n%v\n", err)
			fmt.Fprintln(out, "[FAILED]")
			failed++
		} else {
			fmt.Fprintln(out, "[PASSED]")
			passed++
		}
		printSeparator(out, "-")
	}

	printSeparator(out, "=")
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "Total : %d\n", passed+failed)
	fmt.Fprintf(out, "Passed: %d\n", passed)
	fmt.Fprintf(out, "Failed: %d\n", failed)
	printSeparator(out, "=")

	if failed > 0 {
		return fmt.Errorf("validate: %d of %d contract files failed", failed, passed+failed)
	}
	return nil
}

// buildOne runs the full pipeline for one contract file. Any error means the
// file failed; the batch loop catches it and moves on.
func buildOne(file string, extra []validator.Validator, modelOpts []models.Option) error {
	router, err := routes.NewSpecRouter(file,
		routes.WithExtraValidators(extra...),
		routes.WithModelOptions(modelOpts...),
	)
	if err != nil {
		return err
	}
	_, err = router.Build()
	return err
}

// discoverContracts resolves a path into the sorted list of contract files.
// A file path is taken as-is; a directory is walked with the include globs.
func discoverContracts(path string, include []string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("validate: %v", err))
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	walk := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, glob := range include {
			if ok, _ := doublestar.Match(glob, rel); ok {
				files = append(files, p)
				return nil
			}
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, fmt.Errorf("validate: walk %s: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}
