package commands

import (
	"github.com/spf13/cobra"

	"github.com/pkcs1pad/pkcs1pad-go/pkg/pkcs1pad"
)

func decryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt",
		Short: "PKCS#1 v1.5 decrypt stdin against a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(false, (*pkcs1pad.Transform).Decrypt)
		},
	}
}
