package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"followme/internal/tuyair"
)

var decodeBlocks bool

var decodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Print the pulse train of an IR code",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().BoolVarP(&decodeBlocks, "blocks", "b", false, "also list the compressed blocks")
}

func runDecode(cmd *cobra.Command, args []string) error {
	pulses, err := tuyair.DecodeIR(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if decodeBlocks {
		blocks, err := tuyair.CodeBlocks(args[0])
		if err != nil {
			return err
		}
		for i, b := range blocks {
			if b.IsLiteral() {
				fmt.Fprintf(out, "%3d literal  % X\n", i, b.Literal)
				continue
			}
			fmt.Fprintf(out, "%3d distance length=%d distance=%d\n", i, b.Length, b.Distance)
		}
	}
	fmt.Fprintln(out, joinInts(pulses))
	return nil
}
