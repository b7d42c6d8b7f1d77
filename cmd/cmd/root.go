package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/env"
)

const AppName = "microfat"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:     AppName,
		Short:   AppName + " - FAT32 disk image and SD card tool",
		Version: fmt.Sprintf("%s (commit %s, built %s)", env.Version, env.CommitHash, env.BuildTime),
	}

	rootCmd.PersistentFlags().String("log-level", "INFO", "minimum log level (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		DefineMkfsCommand(),
		DefineInfoCommand(),
		DefineLsCommand(),
		DefineCatCommand(),
		DefinePutCommand(),
		DefineRmCommand(),
		DefineMvCommand(),
		DefineMountCommand(),
	)

	return rootCmd.Execute()
}
