package akcipher

import "context"

// Op identifies which of the four raw operations a Request is for. The
// engine itself is padding-agnostic; Op only exists so engines can apply
// operation-specific key usage checks (e.g. refusing to decrypt with a
// public-only key).
type Op int

const (
	OpEncrypt Op = iota
	OpDecrypt
	OpSign
	OpVerify
)

func (o Op) String() string {
	switch o {
	case OpEncrypt:
		return "encrypt"
	case OpDecrypt:
		return "decrypt"
	case OpSign:
		return "sign"
	case OpVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// Request is one raw-primitive invocation bound to an Engine. For
// encrypt/sign Src is the k-1 byte padded block (k = modulus size); for
// decrypt/verify it is the k-byte ciphertext or signature. Dst must have
// capacity for k bytes. The engine writes the result's minimal big-endian
// encoding into Dst[:n] and returns n, which may be less than k-1. For
// decrypt/verify, n == k means the value has no leading zero byte; that
// case is reported as ErrNoLeadingZero, which pkcs1pad maps to ErrInvalid.
type Request struct {
	Op  Op
	Src []byte
	Dst []byte
}

// Engine performs raw modular exponentiation for one RSA key. It has no
// notion of PKCS#1 padding; every byte of Src/Dst is caller-defined.
type Engine interface {
	// SetPublicKey installs a public key from its encoded form and returns
	// the resulting modulus size in bytes, or an error.
	SetPublicKey(key []byte) (modulusSize int, err error)

	// SetPrivateKey installs a private key from its encoded form and returns
	// the resulting modulus size in bytes, or an error.
	SetPrivateKey(key []byte) (modulusSize int, err error)

	// MaxSize returns the modulus size in bytes, or 0 if no key is installed.
	MaxSize() int

	// Do executes req synchronously and returns the number of bytes written
	// to req.Dst.
	Do(ctx context.Context, req *Request) (n int, err error)
}

// CompletionFunc is invoked exactly once, on a worker goroutine, when a
// Request queued by AsyncEngine.Submit finishes. It is not invoked when
// Submit runs the request inline.
type CompletionFunc func(n int, err error)
