// Package internalcheck holds static coding-discipline tests for
// pkg/pkcs1pad: they load the package's AST via golang.org/x/tools/go/packages
// and flag patterns that are unsafe for secret-carrying code (naive
// byte-slice comparison, hex-formatting of buffers that may hold
// padding/key material).
package internalcheck
