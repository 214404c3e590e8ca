package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swapextract/internal/decode"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "topic0 [signature]",
		Short:        "Print the Keccak-256 topic hash of an event signature",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			signature := decode.SwapSignature
			if len(args) == 1 {
				signature = args[0]
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), decode.EventTopic(signature))
			return err
		},
	}
}
