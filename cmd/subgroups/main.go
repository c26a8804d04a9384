package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose bool
	logger  *logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subgroups",
		Short: "subgroups is a tool to perform subgroup discovery",
		Long:  `A tool to discover subgroups in your data with the SDMap algorithm, and to move datasets between storage backends`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), mineCmd(config), setCmd(config))
	return rootCmd
}

/*
Logger returns the logger for the command, building it the first time
according to the verbose flag.
*/
func (rcc *rootCmdConfig) Logger() *logger {
	if rcc.logger == nil {
		rcc.logger = newLogger(rcc.verbose, os.Stderr)
	}
	return rcc.logger
}

func (rcc *rootCmdConfig) Logf(format string, a ...interface{}) {
	rcc.Logger().Logf(format, a...)
}
