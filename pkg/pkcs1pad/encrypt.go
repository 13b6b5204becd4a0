package pkcs1pad

import (
	"context"
	"fmt"
	"time"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
)

// Encrypt builds a type-0x02 encryption block around req.Src and drives it
// through the inner engine. It returns immediately with the number of bytes
// written to req.Dst, ErrInProgress if the request queued on an async inner
// engine's backlog, or an error.
func (t *Transform) Encrypt(ctx context.Context, req *Request) (int, error) {
	const op = "encrypt"
	start := time.Now()

	k, err := t.modulusSize()
	if err != nil {
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	if len(req.Src) > k-11 {
		err := &OverflowError{Required: k - 11}
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}
	if len(req.Dst) < k {
		err := &OverflowError{Required: k}
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	padLen := k - 3 - len(req.Src)
	inBuf, rerr := formatEncryptPad(t.rand, padLen)
	if rerr != nil {
		err := fmt.Errorf("%w: reading PS randomness: %v", ErrOutOfMemory, rerr)
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}
	src := akcipher.Chain(inBuf, req.Src)
	outBuf := make([]byte, k)

	post := func(n int, ierr error) (int, error) {
		if ierr != nil {
			wipe(outBuf)
			werr := mapInnerErr(ierr)
			t.finish(ctx, op, req, start, werr)
			return 0, opError(op, werr)
		}
		padLenOut := k - n
		for i := 0; i < padLenOut; i++ {
			req.Dst[i] = 0
		}
		copy(req.Dst[padLenOut:k], outBuf[:n])
		wipe(outBuf)
		t.finish(ctx, op, req, start, nil)
		return k, nil
	}

	n, rerr2 := t.submit(ctx, akcipher.OpEncrypt, src, outBuf, req.Flags, post, req.Complete)
	if rerr2 == ErrInProgress {
		return 0, rerr2
	}
	return n, rerr2
}
