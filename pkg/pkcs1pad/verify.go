package pkcs1pad

import (
	"context"
	"time"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
)

// Verify parses a type-0x01 signature block from req.Src and copies the
// recovered message into req.Dst. It distinguishes ErrInvalid (structural
// failure: wrong block type, short PS, missing separator) from
// ErrBadMessage (structurally sound, DigestInfo mismatch).
//
// Unlike Decrypt, Verify tolerates req.Src longer than k, preserved for
// bug-compatibility: signatures are sometimes transported with a leading
// zero byte from big-integer encoders.
func (t *Transform) Verify(ctx context.Context, req *Request) (int, error) {
	const op = "verify"
	start := time.Now()

	k, err := t.modulusSize()
	if err != nil {
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	if len(req.Src) < k {
		t.finish(ctx, op, req, start, ErrInvalid)
		return 0, opError(op, ErrInvalid)
	}
	src := req.Src[len(req.Src)-k:]

	prefix, err := t.digestPrefix()
	if err != nil {
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	outBuf := make([]byte, k)

	post := func(n int, ierr error) (int, error) {
		if ierr != nil {
			wipe(outBuf)
			werr := mapInnerErr(ierr)
			t.finish(ctx, op, req, start, werr)
			return 0, opError(op, werr)
		}
		message, perr := parseVerifyBlock(outBuf[:n], k, prefix)
		if perr != nil {
			wipe(outBuf)
			t.finish(ctx, op, req, start, perr)
			return 0, opError(op, perr)
		}
		if len(req.Dst) < len(message) {
			err := &OverflowError{Required: len(message)}
			wipe(outBuf)
			t.finish(ctx, op, req, start, err)
			return 0, opError(op, err)
		}
		copy(req.Dst, message)
		wipe(outBuf)
		t.finish(ctx, op, req, start, nil)
		return len(message), nil
	}

	n, rerr := t.submit(ctx, akcipher.OpVerify, src, outBuf, req.Flags, post, req.Complete)
	if rerr == ErrInProgress {
		return 0, rerr
	}
	return n, rerr
}
