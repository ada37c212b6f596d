package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/phanxgames/bough/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			out := cmd.OutOrStdout()
			switch format {
			case "toml":
				return toml.NewEncoder(out).Encode(cfg)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unknown format %q (want toml or yaml)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format: toml or yaml")
	return cmd
}
