package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZephyrCodesStuff/slavart/internal/config"
	"github.com/ZephyrCodesStuff/slavart/internal/tui"
)

func main() {
	var configPath, output string

	cmd := &cobra.Command{
		Use:          "slavart-tui",
		Short:        "Interactive search and download",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if output != "" {
				settings.OutputPath = output
			}
			return tui.Run(settings)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "download directory (default from config, else .)")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
