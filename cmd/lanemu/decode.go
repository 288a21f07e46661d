package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lanemu/pkg/link"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a hex-encoded frame and print its fields",
		Long: "Decode a linearized frame given as a hex string (argument or stdin).\n" +
			"Whitespace and colons in the input are ignored.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in string
			if len(args) == 1 {
				in = args[0]
			} else {
				raw, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				in = string(raw)
			}
			in = strings.NewReplacer(" ", "", "\n", "", "\t", "", ":", "").Replace(in)

			buf, err := hex.DecodeString(in)
			if err != nil {
				return fmt.Errorf("decode hex: %w", err)
			}
			f, err := link.Decode(buf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.String())
			return nil
		},
	}
}
