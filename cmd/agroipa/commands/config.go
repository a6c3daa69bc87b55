package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the CLI configuration persisted in ~/.agroipa/config.yml.
type Config struct {
	API          string `yaml:"api,omitempty"`
	AccessToken  string `yaml:"access_token,omitempty"`
	RefreshToken string `yaml:"refresh_token,omitempty"`
	Output       string `yaml:"output,omitempty"`
}

// configPath returns the config file location, honoring the --config flag.
func configPath() string {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".agroipa", "config.yml")
}

// loadConfig reads the config file. A missing or unreadable file yields an
// empty config.
func loadConfig() *Config {
	config := &Config{}

	path := configPath()
	if path == "" {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfig writes the config file with owner-only permissions since it
// carries tokens.
func saveConfig(config *Config) error {
	path := configPath()
	if path == "" {
		return fmt.Errorf("determining config path: %w", os.ErrNotExist)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Setting", "Value")
			table.Append("api", config.API)
			table.Append("access_token", maskToken(config.AccessToken))
			table.Append("refresh_token", maskToken(config.RefreshToken))
			table.Append("output", config.Output)

			if err := table.Render(); err != nil {
				return fmt.Errorf("rendering table: %w", err)
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			key, value := args[0], args[1]
			switch key {
			case "api":
				config.API = value
			case "access_token":
				config.AccessToken = value
			case "refresh_token":
				config.RefreshToken = value
			case "output":
				config.Output = value
			default:
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Printf("Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			key := args[0]
			switch key {
			case "api":
				config.API = ""
			case "access_token":
				config.AccessToken = ""
			case "refresh_token":
				config.RefreshToken = ""
			case "output":
				config.Output = ""
			default:
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			fmt.Printf("Unset %s\n", key)

			return nil
		},
	}
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}

	return Masked
}
