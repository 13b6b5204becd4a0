package pkcs1pad

import (
	"context"
	"time"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
)

// Sign builds a type-0x01 signature block around req.Src (the caller's
// already-hashed message) and drives it through the inner engine. When the
// transform was constructed with a hash name, the corresponding DigestInfo
// prefix is placed before the message; with no hash configured, the block
// signs req.Src directly ("raw" signature).
func (t *Transform) Sign(ctx context.Context, req *Request) (int, error) {
	const op = "sign"
	start := time.Now()

	k, err := t.modulusSize()
	if err != nil {
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	prefix, err := t.digestPrefix()
	if err != nil {
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	payloadLen := len(prefix) + len(req.Src)
	if payloadLen > k-11 {
		err := &OverflowError{Required: k - 11 - len(prefix)}
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}
	if len(req.Dst) < k {
		err := &OverflowError{Required: k}
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	padLen := k - 3 - payloadLen
	inBuf := formatSignPad(padLen)
	d := akcipher.Chain(prefix, req.Src)
	src := akcipher.Chain(inBuf, d)
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

	n, rerr := t.submit(ctx, akcipher.OpSign, src, outBuf, req.Flags, post, req.Complete)
	if rerr == ErrInProgress {
		return 0, rerr
	}
	return n, rerr
}
