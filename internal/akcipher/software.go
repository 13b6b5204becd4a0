package akcipher

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"math/big"
	"sync"
)

// ErrNoLeadingZero is returned by Do for OpDecrypt/OpVerify when the
// decoded integer's minimal big-endian encoding occupies the full k bytes
// of the modulus instead of k-1: the value has no implicit leading zero
// byte, which cannot correspond to a validly PKCS#1-padded block. The
// padding layer maps this to its own invalid-padding error.
var ErrNoLeadingZero = errors.New("akcipher: decoded value has no leading zero byte")

// ErrNoKey is returned when an operation is attempted before the
// required key half has been installed.
var ErrNoKey = errors.New("akcipher: key not installed")

// SoftwareEngine is a reference Engine implementation performing raw RSA
// modular exponentiation with math/big. It does not touch the padding
// format at all: callers hand it exactly the bytes an unpadded RSA
// primitive should see.
//
// This stands in for the raw RSA primitive the padding layer treats as an
// external collaborator. A production deployment would swap this for an
// engine backed by a hardware security module or a constant-time RSA
// implementation; SoftwareEngine exists for tests, the CLI, and to give
// the async orchestrator something real to drive.
type SoftwareEngine struct {
	mu          sync.RWMutex
	pub         *rsa.PublicKey
	priv        *rsa.PrivateKey
	modulusSize int
}

// NewSoftwareEngine returns an Engine with no key installed.
func NewSoftwareEngine() *SoftwareEngine {
	return &SoftwareEngine{}
}

// SetPublicKey accepts a DER-encoded key in PKIX or PKCS#1 form.
func (e *SoftwareEngine) SetPublicKey(key []byte) (int, error) {
	pub, err := parsePublicKey(key)
	if err != nil {
		return 0, fmt.Errorf("akcipher: parse public key: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pub = pub
	e.modulusSize = (pub.N.BitLen() + 7) / 8
	return e.modulusSize, nil
}

// SetPrivateKey accepts a DER-encoded key in PKCS#8 or PKCS#1 form.
func (e *SoftwareEngine) SetPrivateKey(key []byte) (int, error) {
	priv, err := parsePrivateKey(key)
	if err != nil {
		return 0, fmt.Errorf("akcipher: parse private key: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.priv = priv
	e.pub = &priv.PublicKey
	e.modulusSize = (priv.N.BitLen() + 7) / 8
	return e.modulusSize, nil
}

// MaxSize returns the modulus size in bytes, or 0 if no key is installed.
func (e *SoftwareEngine) MaxSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.modulusSize
}

// Do performs the raw modular exponentiation for req.Op. See Request for
// the byte-length contract on each side.
func (e *SoftwareEngine) Do(_ context.Context, req *Request) (int, error) {
	e.mu.RLock()
	pub, priv, k := e.pub, e.priv, e.modulusSize
	e.mu.RUnlock()

	if k == 0 {
		return 0, ErrNoKey
	}

	switch req.Op {
	case OpEncrypt, OpVerify:
		if pub == nil {
			return 0, ErrNoKey
		}
		m := new(big.Int).SetBytes(req.Src)
		c := new(big.Int).Exp(m, big.NewInt(int64(pub.E)), pub.N)
		return writeResult(req, c, k, req.Op)
	case OpDecrypt, OpSign:
		if priv == nil {
			return 0, ErrNoKey
		}
		c := new(big.Int).SetBytes(req.Src)
		m := new(big.Int).Exp(c, priv.D, priv.N)
		return writeResult(req, m, k, req.Op)
	default:
		return 0, fmt.Errorf("akcipher: unknown op %v", req.Op)
	}
}

// writeResult encodes v in minimal big-endian form into req.Dst. For the
// two "output is the padded block" directions (decrypt/verify) a result
// that fills the entire k bytes indicates the value has no leading zero
// byte and is reported as ErrNoLeadingZero; for the two "output is the
// raw ciphertext/signature" directions (encrypt/sign) a full-width result
// is completely normal.
func writeResult(req *Request, v *big.Int, k int, op Op) (int, error) {
	b := v.Bytes()
	if len(b) > k {
		return 0, fmt.Errorf("akcipher: result exceeds modulus size")
	}
	if len(req.Dst) < len(b) {
		return 0, fmt.Errorf("akcipher: destination buffer too small")
	}
	copy(req.Dst, b)

	if (op == OpDecrypt || op == OpVerify) && len(b) == k {
		return len(b), ErrNoLeadingZero
	}
	return len(b), nil
}

func parsePublicKey(key []byte) (*rsa.PublicKey, error) {
	if pub, err := x509.ParsePKIXPublicKey(key); err == nil {
		rsaPub, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("not an RSA public key")
		}
		return rsaPub, nil
	}
	return x509.ParsePKCS1PublicKey(key)
}

func parsePrivateKey(key []byte) (*rsa.PrivateKey, error) {
	if priv, err := x509.ParsePKCS8PrivateKey(key); err == nil {
		rsaPriv, ok := priv.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("not an RSA private key")
		}
		return rsaPriv, nil
	}
	return x509.ParsePKCS1PrivateKey(key)
}
