package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/picfeed/pkg/client"
	"github.com/zfogg/picfeed/pkg/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		output.Printf("picfeed %s\n", client.Version)
	},
}
