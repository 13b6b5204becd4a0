package pkcs1pad

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
	"github.com/pkcs1pad/pkcs1pad-go/pkg/pkcs1pad/logging"
)

// CompletionFunc is invoked exactly once, from the inner engine's worker
// pool, for a Request that was queued on the backlog (the operation returned
// ErrInProgress). It is not invoked when the operation completes inline; the
// operation's own return values carry the result then.
// n is the number of plaintext/message/ciphertext/signature bytes written
// to Request.Dst.
type CompletionFunc func(n int, err error)

// Flags bits a caller attaches to a Request.
type Flags struct {
	// MaySleep permits the submit path's allocations to block. pkcs1pad's
	// allocations are ordinary Go heap allocations and never actually
	// block the way a kernel GFP_KERNEL alloc can stall. pkcs1pad does not
	// read this flag, and it is not passed on to the inner Engine.
	MaySleep bool

	// MayBacklog permits the request to queue on the inner engine's
	// worker pool when it is saturated (see internal/akcipher.AsyncEngine).
	// Without it, a saturated pool surfaces ErrBusy synchronously instead.
	MayBacklog bool
}

// Request is one in-flight encrypt/decrypt/sign/verify call. Allocate one
// per call; it is not re-entrant — do not submit the same Request again
// before Complete (or the return of the call that owns it) fires.
type Request struct {
	// Src is the caller's input: plaintext (encrypt), ciphertext (decrypt),
	// message (sign), or signature (verify).
	Src []byte

	// Dst receives the operation's output. Encrypt and Sign need len(Dst) of
	// at least the transform's MaxSize(); Decrypt and Verify need room for
	// the recovered payload only. A shorter Dst returns an *OverflowError.
	Dst []byte

	Flags Flags

	// Complete is invoked when Flags.MayBacklog caused the request to
	// queue; see the return value of each operation for the synchronous
	// cases. May be nil if MayBacklog is never set on this transform.
	Complete CompletionFunc

	// ID correlates log lines and metrics for this request. Assigned
	// automatically on first use if left zero.
	ID uuid.UUID
}

func (r *Request) id() uuid.UUID {
	if subtle.ConstantTimeCompare(r.ID[:], uuid.Nil[:]) == 1 {
		r.ID = uuid.New()
	}
	return r.ID
}

// Option configures a Transform at construction time.
type Option func(*Transform)

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(t *Transform) { t.logger = l }
}

// WithMetrics attaches a Prometheus metrics collector (see NewMetrics). The
// default is nil, meaning no metrics are recorded.
func WithMetrics(m *metricsCollector) Option {
	return func(t *Transform) { t.metrics = m }
}

// WithRand overrides the PS randomness source, for example to make encrypt
// block construction deterministic. The default is crypto/rand.
func WithRand(r io.Reader) Option {
	return func(t *Transform) { t.rand = r }
}

// WithAsyncEngine wraps inner in a bounded worker pool of the given
// capacity before binding it, giving the transform a deferred-completion
// path for backlogged requests. Capacity below 1 is treated as 1.
func WithAsyncEngine(capacity int64) Option {
	return func(t *Transform) { t.inner = akcipher.NewAsyncEngine(t.inner, capacity) }
}

// Transform is one configured pkcs1pad(<inner>[,<hash>]) instance. Safe for
// concurrent use across independent Requests; key installation
// (SetPublicKey/SetPrivateKey) is the caller's responsibility to serialize
// against in-flight operations.
type Transform struct {
	inner    akcipher.Engine
	hashName string

	logger  logging.Logger
	metrics *metricsCollector
	rand    io.Reader
}

// New binds a Transform to inner. hashName may be empty, which disables
// DigestInfo prefixing for Sign/Verify ("raw" signatures) and is only valid
// when the caller never calls Sign/Verify with a configured hash.
func New(inner akcipher.Engine, hashName string, opts ...Option) *Transform {
	t := &Transform{
		inner:    inner,
		hashName: hashName,
		logger:   logging.NoOp(),
		rand:     cryptoRandReader,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetPublicKey installs a public key on the inner engine. The Transform
// keeps no copy of the modulus size: MaxSize and every operation read it
// from the inner engine each time. An inner-engine error or a non-positive
// size is returned as an error wrapping ErrInvalid.
func (t *Transform) SetPublicKey(key []byte) error {
	size, err := t.inner.SetPublicKey(key)
	if err != nil {
		return opError("set_pub_key", fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if size <= 0 {
		return opError("set_pub_key", ErrInvalid)
	}
	return nil
}

// SetPrivateKey installs a private key on the inner engine. As with
// SetPublicKey, the modulus size is not cached on the Transform, and an
// inner-engine error or a non-positive size is returned wrapping ErrInvalid.
func (t *Transform) SetPrivateKey(key []byte) error {
	size, err := t.inner.SetPrivateKey(key)
	if err != nil {
		return opError("set_priv_key", fmt.Errorf("%w: %v", ErrInvalid, err))
	}
	if size <= 0 {
		return opError("set_priv_key", ErrInvalid)
	}
	return nil
}

// MaxSize returns the inner engine's current modulus size in bytes, or an
// error if the inner engine reports 0 (no key installed). It is the same ceiling for all four operations:
// encrypt/sign fill exactly MaxSize() bytes, decrypt/verify accept up to
// MaxSize()-11 bytes of recovered payload.
func (t *Transform) MaxSize() (int, error) {
	k := t.inner.MaxSize()
	if k == 0 {
		return 0, opError("max_size", ErrInvalid)
	}
	return k, nil
}

// modulusSize returns k and an error if the transform is not ready to
// operate: no key installed, or k too large for internal/akcipher's
// buffer-plumbing ceiling.
func (t *Transform) modulusSize() (int, error) {
	k := t.inner.MaxSize()
	if k < 12 {
		return 0, ErrInvalid
	}
	if k > akcipher.PageSize {
		return 0, ErrNotSupported
	}
	return k, nil
}

func (t *Transform) digestPrefix() ([]byte, error) {
	if t.hashName == "" {
		return nil, nil
	}
	tmpl, ok := lookupDigestInfo(t.hashName)
	if !ok {
		return nil, fmt.Errorf("pkcs1pad: unknown hash %q", t.hashName)
	}
	return tmpl.prefix, nil
}

// submit drives the inner engine for one akcipher.Request, honoring the
// may-backlog contract: on synchronous completion (or a synchronous
// error), post is called before submit returns. On a deferred completion,
// post runs later from the inner engine's worker goroutine and submit
// returns ErrInProgress immediately.
func (t *Transform) submit(ctx context.Context, op akcipher.Op, src, dst []byte, flags Flags, post func(n int, err error) (int, error), complete CompletionFunc) (int, error) {
	innerReq := &akcipher.Request{Op: op, Src: src, Dst: dst}

	if ae, ok := t.inner.(*akcipher.AsyncEngine); ok {
		inline, n, err := ae.Submit(ctx, innerReq, flags.MayBacklog, func(n int, err error) {
			pn, perr := post(n, err)
			if complete != nil {
				complete(pn, perr)
			}
		})
		if !inline {
			return 0, ErrInProgress
		}
		return post(n, err)
	}

	n, err := t.inner.Do(ctx, innerReq)
	return post(n, err)
}

// finish records metrics and a log line for one completed operation,
// correlated by req's ID so concurrent requests against the same transform
// are distinguishable in logs.
func (t *Transform) finish(ctx context.Context, op string, req *Request, start time.Time, err error) {
	if t.metrics != nil {
		t.metrics.observe(op, time.Since(start).Seconds(), err)
	}
	if err != nil {
		t.logger.Error(ctx, "pkcs1pad operation failed", "op", op, "request_id", req.id(), "error", err)
		return
	}
	t.logger.Debug(ctx, "pkcs1pad operation completed", "op", op, "request_id", req.id())
}
