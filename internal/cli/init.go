package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/cfmtlint/internal/configloader"
	"github.com/yaklabco/cfmtlint/internal/logging"
	"github.com/yaklabco/cfmtlint/pkg/config"
	"github.com/yaklabco/cfmtlint/pkg/lint/rules"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cfmtlint configuration file",
		Long: `Create a new .cfmtlint.yml configuration file in the current directory
with sensible defaults. The file can be customized to enable/disable rules,
change severities, and tune the formatter.

Examples:
  cfmtlint init                      Create minimal .cfmtlint.yml
  cfmtlint init --full               Create full config with all rules documented
  cfmtlint init --format toml        Create .cfmtlint.toml instead
  cfmtlint init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with all rules documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: .cfmtlint.yml or .cfmtlint.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != "yaml" && flags.format != "toml" {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("invalid format %q: must be yaml or toml", flags.format))
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".cfmtlint.yml"
		if flags.format == "toml" {
			outputPath = ".cfmtlint.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil && !flags.force {
		ok, promptErr := confirmOverwrite(cmd.InOrStdin(), cmd.ErrOrStderr(), outputPath)
		if promptErr != nil {
			return promptErr
		}
		if !ok {
			return withExitCode(ExitInvalidUsage,
				fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
		Rules:  rules.RuleInfos(rules.NewRegistry()),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configloader.ConfigFilePermissions); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	if flags.full {
		logger.Info("full template includes all rules with documentation")
	}

	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'cfmtlint rules' to see all available rules")

	return nil
}

// confirmOverwrite asks before replacing path. It answers no without
// prompting when in is not an interactive terminal.
func confirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false, nil
	}

	fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
