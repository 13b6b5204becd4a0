// Package commands implements the pkcs1pad CLI's cobra command tree.
package commands

import (
	"github.com/spf13/cobra"
)

// keyPath is the PEM-encoded key file shared by every subcommand.
var keyPath string

// hashName names the configured hash for sign/verify; empty means "raw"
// signatures with no DigestInfo prefix.
var hashName string

var rootCmd = &cobra.Command{
	Use:   "pkcs1pad",
	Short: "Exercise the pkcs1pad PKCS#1 v1.5 padding library",
	Long: "pkcs1pad is a manual-testing CLI around the pkcs1pad library: it reads\n" +
		"stdin, runs encrypt/decrypt/sign/verify against a PEM-encoded RSA key,\n" +
		"and writes the result to stdout.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&keyPath, "key", "", "path to a PEM-encoded RSA key (public or private, as required)")
	rootCmd.PersistentFlags().StringVar(&hashName, "hash", "", "hash name for sign/verify DigestInfo prefixing (md5, sha1, rmd160, sha224, sha256, sha384, sha512)")

	rootCmd.AddCommand(encryptCmd())
	rootCmd.AddCommand(decryptCmd())
	rootCmd.AddCommand(signCmd())
	rootCmd.AddCommand(verifyCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
