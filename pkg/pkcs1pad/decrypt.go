package pkcs1pad

import (
	"context"
	"time"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
)

// Decrypt parses a type-0x02 encryption block from req.Src and copies the
// recovered plaintext into req.Dst. Every parse failure collapses to
// ErrInvalid; the contract deliberately gives upper layers no way to
// distinguish which check failed (classic Bleichenbacher oracle defense).
func (t *Transform) Decrypt(ctx context.Context, req *Request) (int, error) {
	const op = "decrypt"
	start := time.Now()

	k, err := t.modulusSize()
	if err != nil {
		t.finish(ctx, op, req, start, err)
		return 0, opError(op, err)
	}

	// Decrypt requires src_len == k exactly, unlike Verify which tolerates
	// src_len >= k. Preserved for bug-compatibility with the reference
	// implementation this block format is drawn from.
	if len(req.Src) != k {
		t.finish(ctx, op, req, start, ErrInvalid)
		return 0, opError(op, ErrInvalid)
	}

	outBuf := make([]byte, k)

	post := func(n int, ierr error) (int, error) {
		if ierr != nil {
			wipe(outBuf)
			werr := mapInnerErr(ierr)
			t.finish(ctx, op, req, start, werr)
			return 0, opError(op, werr)
		}
		payload, perr := parseDecryptBlock(outBuf[:n], k)
		if perr != nil {
			wipe(outBuf)
			t.finish(ctx, op, req, start, perr)
			return 0, opError(op, perr)
		}
		if len(req.Dst) < len(payload) {
			err := &OverflowError{Required: len(payload)}
			wipe(outBuf)
			t.finish(ctx, op, req, start, err)
			return 0, opError(op, err)
		}
		copy(req.Dst, payload)
		wipe(outBuf)
		t.finish(ctx, op, req, start, nil)
		return len(payload), nil
	}

	n, rerr := t.submit(ctx, akcipher.OpDecrypt, req.Src, outBuf, req.Flags, post, req.Complete)
	if rerr == ErrInProgress {
		return 0, rerr
	}
	return n, rerr
}
