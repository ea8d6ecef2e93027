package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"followme/internal/tuyair"
)

var encodeFlags struct {
	level    int
	rounding string
	raw      bool
	frame    bool
}

var encodeCmd = &cobra.Command{
	Use:   "encode <temperature>",
	Short: "Print the IR code for a temperature",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().IntVarP(&encodeFlags.level, "level", "l", int(tuyair.DefaultLevel), "compression level 0-3")
	encodeCmd.Flags().StringVarP(&encodeFlags.rounding, "rounding", "r", tuyair.RoundHalfEven.String(), "half_even or half_up")
	encodeCmd.Flags().BoolVar(&encodeFlags.raw, "raw", false, "also print the pulse train")
	encodeCmd.Flags().BoolVar(&encodeFlags.frame, "frame", false, "also print the command frame")
}

func runEncode(cmd *cobra.Command, args []string) error {
	temperature, err := tuyair.ParseTemperature(args[0])
	if err != nil {
		return err
	}
	rounding, err := tuyair.ParseRoundingMode(encodeFlags.rounding)
	if err != nil {
		return err
	}
	encoder, err := tuyair.NewEncoder(tuyair.Level(encodeFlags.level), rounding, tuyair.FollowMeTiming)
	if err != nil {
		return err
	}

	command, err := encoder.Command(temperature)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if encodeFlags.frame {
		fmt.Fprintf(out, "frame:   % X\n", command.Frame)
		fmt.Fprintf(out, "negated: % X\n", tuyair.Negate(command.Frame))
	}
	if encodeFlags.raw {
		fmt.Fprintf(out, "pulses:  %s\n", joinInts(command.Pulses))
	}
	fmt.Fprintln(out, command.Code)
	return nil
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
