// Command pkcs1pad exercises the pkcs1pad library's encrypt/decrypt/sign/
// verify operations against PEM-encoded RSA keys, for manual testing and as
// a runnable example of the library surface.
package main

import (
	"fmt"
	"os"

	"github.com/pkcs1pad/pkcs1pad-go/cmd/pkcs1pad/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
