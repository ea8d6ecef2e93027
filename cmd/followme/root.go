package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "followme",
	Short: "Send room temperature to Midea air conditioners through a Tuya IR blaster",
	Long: "followme encodes the FollowMe temperature command as a Tuya IR code and sends it " +
		"periodically through a ZHA-connected IR blaster.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
}
