package commands

import (
	"github.com/spf13/cobra"

	"github.com/pkcs1pad/pkcs1pad-go/pkg/pkcs1pad"
)

func encryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt",
		Short: "PKCS#1 v1.5 encrypt stdin against a public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(true, (*pkcs1pad.Transform).Encrypt)
		},
	}
}
