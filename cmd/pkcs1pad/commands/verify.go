package commands

import (
	"github.com/spf13/cobra"

	"github.com/pkcs1pad/pkcs1pad-go/pkg/pkcs1pad"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "PKCS#1 v1.5 verify a signature on stdin against a public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(true, (*pkcs1pad.Transform).Verify)
		},
	}
}
