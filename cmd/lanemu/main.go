package main

import (
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	var cfgPath string

	root := &cobra.Command{
		Use:           "lanemu",
		Short:         "Emulate a toy LAN: framed link-layer exchange between in-process endpoints",
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")

	root.AddCommand(newRunCmd(&cfgPath))
	root.AddCommand(newDecodeCmd())

	if err := root.Execute(); err != nil {
		_, _ = os.Stderr.WriteString("lanemu: " + err.Error() + "\n")
		os.Exit(1)
	}
}
