package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/clipdeck/config"
	"github.com/lixenwraith/clipdeck/input"
)

var configFlags struct {
	force bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration and key actions",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().BoolVar(&configFlags.force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := rootFlags.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.WriteDefault(path, configFlags.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	data, err := appCfg.Marshal()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if appCfg.File != "" {
		fmt.Fprintf(out, "# %s\n", appCfg.File)
	} else {
		fmt.Fprintln(out, "# defaults (no config file)")
	}
	out.Write(data)

	fmt.Fprintln(out, "\n# key actions")
	for _, name := range input.ActionNames() {
		fmt.Fprintf(out, "#   %s\n", name)
	}
	return nil
}
