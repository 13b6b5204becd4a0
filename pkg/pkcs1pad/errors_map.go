package pkcs1pad

import (
	"errors"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
)

// mapInnerErr folds every possible internal/akcipher.Engine failure into
// pkcs1pad's closed error taxonomy. The inner engine has no notion of
// "invalid padding" vs "key missing" vs anything else from the padding
// layer's point of view — any failure it reports collapses to ErrInvalid,
// the same way a malformed EB does. The one exception is akcipher.ErrBusy,
// which maps to ErrBusy.
func mapInnerErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, akcipher.ErrNoLeadingZero) {
		return ErrInvalid
	}
	if errors.Is(err, akcipher.ErrBusy) {
		return ErrBusy
	}
	return ErrInvalid
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
