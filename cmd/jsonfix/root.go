package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"charm.land/jsonfix"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "jsonfix [flags] [FILE ...]",
		Short: "Fix almost-JSON files with trailing commas, comments, smart quotes, and more",
		Long: `jsonfix repairs text that is almost JSON: trailing commas, comments,
smart quotes, single-quoted strings, unquoted keys, Python literals,
unescaped newlines, missing closing brackets, and truncation markers.

Files are fixed in place unless --output is given. Use '-' to read from
stdin or write to stdout; with no files, stdin is read.`,
		Version:       jsonfix.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}
			return run(v, cmd, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default .jsonfix.yaml in the working directory)")
	flags.StringP("output", "o", "", "output file (default: overwrite input; '-' for stdout)")
	flags.BoolP("verbose", "v", false, "show repairs made")
	flags.BoolP("backup", "b", false, "create a .bak backup before overwriting")
	flags.Bool("dry-run", false, "show what would change without writing")
	flags.String("schema", "", "validate repaired documents against a JSON Schema file")

	flags.Bool("trailing-commas", true, "remove trailing commas")
	flags.Bool("comments", true, "strip //, /* */, and # comments")
	flags.Bool("normalize-quotes", true, "replace smart quotes with ASCII quotes")
	flags.Bool("single-quotes", true, "convert single-quoted strings")
	flags.Bool("unquoted-keys", true, "add quotes around bare object keys")
	flags.Bool("python-literals", true, "convert True, False, and None")
	flags.Bool("escape-newlines", true, "escape literal newlines inside strings")
	flags.Bool("auto-close", true, "append missing closing brackets at end of input")
	flags.Bool("ellipsis", true, "remove ... truncation markers")
	flags.Bool("strict", false, "accept only already-valid JSON, repairing nothing")
	flags.String("on-repair", "ignore", "what a needed repair means: ignore, warn, or error")

	cobra.CheckErr(v.BindPFlags(flags))

	return rootCmd
}

// loadConfig layers the viper sources under the parsed flags: an explicit
// config file, or .jsonfix.yaml when present, plus JSONFIX_* environment
// variables.
func loadConfig(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix("JSONFIX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	v.SetConfigName(".jsonfix")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

func engineConfig(v *viper.Viper) (jsonfix.Config, error) {
	policy, err := jsonfix.ParsePolicy(v.GetString("on-repair"))
	if err != nil {
		return jsonfix.Config{}, err
	}

	cfg := jsonfix.DefaultConfig()
	cfg.TrailingCommas = v.GetBool("trailing-commas")
	cfg.Comments = v.GetBool("comments")
	cfg.NormalizeQuotes = v.GetBool("normalize-quotes")
	cfg.SingleQuotes = v.GetBool("single-quotes")
	cfg.UnquotedKeys = v.GetBool("unquoted-keys")
	cfg.PythonLiterals = v.GetBool("python-literals")
	cfg.EscapeNewlines = v.GetBool("escape-newlines")
	cfg.AutoClose = v.GetBool("auto-close")
	cfg.Ellipsis = v.GetBool("ellipsis")
	cfg.Strict = v.GetBool("strict")
	cfg.OnRepair = policy
	return cfg, nil
}

func run(v *viper.Viper, cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig(v)
	if err != nil {
		return err
	}

	output := v.GetString("output")
	files := args
	if len(files) == 0 {
		files = []string{"-"}
	}
	if output != "" && len(files) > 1 {
		return errors.New("--output can only be used with a single input file")
	}

	var schemaJSON []byte
	if path := v.GetString("schema"); path != "" {
		schemaJSON, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
	}

	proc := &processor{
		cfg:     cfg,
		output:  output,
		verbose: v.GetBool("verbose"),
		backup:  v.GetBool("backup"),
		dryRun:  v.GetBool("dry-run"),
		schema:  schemaJSON,
		stdin:   cmd.InOrStdin(),
		stdout:  cmd.OutOrStdout(),
		logger:  log.New(cmd.ErrOrStderr()),
	}

	failed := 0
	for _, path := range files {
		if err := proc.Process(path); err != nil {
			proc.logger.Errorf("%s: %v", displayName(path), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) failed", failed, len(files))
	}
	return nil
}
