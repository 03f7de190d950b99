package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "artnetnode",
	Short: "Art-Net node port advertisement",
	Long: `artnetnode keeps the set of subscribed DMX universes of an Art-Net node
and builds the ArtPollReply that advertises them.

A reply describes at most four ports. Universes are grouped in blocks of
four per net/subnet; when there are more blocks than ports every net/subnet
still gets at least one port.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/conf.toml", "Path to configuration file")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}
