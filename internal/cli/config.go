package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoforge/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialise the configuration",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configShowCommand prints the effective settings after file and
// environment overrides.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			dataDir := cfg.DataDir
			if !c.dataDirExists() {
				dataDir += StyleDim.Render(" (not created yet)")
			}
			printKeyValue("data dir", dataDir)
			printKeyValue("author", cfg.Author)
			printKeyValue("log level", cfg.LogLevel)
			printKeyValue("storage", cfg.Storage.Backend)
			switch cfg.Storage.Backend {
			case "redis":
				printKeyValue("redis", cfg.Storage.RedisURL)
			case "mongo":
				printKeyValue("mongo", cfg.Storage.MongoURI+" / "+cfg.Storage.MongoDatabase)
			}
			printKeyValue("text format", cfg.Editor.TextFormat)
			printKeyValue("debounce", cfg.Editor.Debounce.String())
			printKeyValue("listen", cfg.Server.Listen)
			return nil
		},
	}
}

// configPathCommand prints the config file location.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printFile(c.configFile())
			return nil
		},
	}
}

// configInitCommand writes the default settings unless a file exists.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		// The file may not exist yet, so skip loading it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configFile()
			if _, err := os.Stat(path); err == nil && !force {
				printWarning("Config already exists")
				printDetail("Use --force to overwrite %s", path)
				return nil
			}
			if err := config.Default().Write(path); err != nil {
				return err
			}
			printSuccess("Wrote default config")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func (c *CLI) configFile() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}
