package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/digital-finance/labsite/configs"
	"github.com/digital-finance/labsite/internal/config"
	laberrors "github.com/digital-finance/labsite/internal/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage site configuration",
		Long: `Manage the site configuration file.

Configuration precedence (lowest to highest):
  1. Hardcoded defaults
  2. User config (~/.config/labsite/config.yaml)
  3. Project config (.labsite.yaml in the site directory)
  4. .env in the site directory
  5. Environment variables (LABSITE_*)`,
		Example: `  # Create .labsite.yaml from the template
  labsite config init

  # Show effective configuration
  labsite config show`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .labsite.yaml from the template",
		Long: `Create the project configuration file in the site directory from the
built-in template. With --force an existing file is backed up first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration (a backup is kept)")
	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	out, err := newWriter(cmd)
	if err != nil {
		return err
	}
	path := filepath.Join(dirFlag, config.ProjectConfigName)

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && !force {
		out.Warning("Configuration already exists")
		out.Statusf("📁", "Location: %s", path)
		out.Status("💡", "Use --force to replace it with the template (a backup is kept)")
		return nil
	}

	backupPath, err := config.Backup(path)
	if err != nil {
		return laberrors.ConfigError("failed to back up configuration", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return laberrors.New(laberrors.ErrCodeFilePermission, "cannot create "+filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(configs.ProjectConfigTemplate), 0o644); err != nil {
		return laberrors.New(laberrors.ErrCodeFilePermission, "cannot write "+path, err)
	}

	out.Success("Created configuration")
	out.Statusf("📁", "Location: %s", path)
	if backupPath != "" {
		out.Statusf("💾", "Backup: %s", backupPath)
	}
	out.Newline()
	out.Status("📋", "Next steps:")
	out.Status("", "  1. Point data.publications at the site's publication list")
	out.Status("", "  2. List lab members under team for the co-authorship graph")
	out.Status("", "  3. Run 'labsite config show' to verify")
	return nil
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long:  `Show the configuration after merging all sources, with data paths resolved.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := newWriter(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			if !out.JSONMode() {
				out.Raw(string(data))
				return nil
			}

			// round-trip through YAML so JSON keys match the file format
			var fields map[string]any
			if err := yaml.Unmarshal(data, &fields); err != nil {
				return fmt.Errorf("failed to convert config: %w", err)
			}
			return out.JSON(fields)
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dirFlag, config.ProjectConfigName))
			fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return nil
		},
	}
}
