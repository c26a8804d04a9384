package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in subgroups' version
	VersionMajor = 0
	// VersionMinor is the minor number in subgroups' version
	VersionMinor = 1
	// VersionPatch is the patch number in subgroups' version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of subgroups",
		Long:  `All software has versions. This is subgroups'`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("subgroups v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
