package akcipher

// PageSize bounds the modulus sizes this engine accepts in one shot,
// mirroring the "requests exceeding one page in modulus size are
// rejected with not-supported" rule (spec §4.3). Unlike the kernel
// scatterlist implementation this is not a real hardware page size; it
// is a generous ceiling chosen so ordinary RSA key sizes (up to 8192
// bits) never hit it, while still giving pkcs1pad something concrete to
// enforce and test.
const PageSize = 8192

// Chain concatenates head and tail into a single contiguous buffer. The
// kernel source this is modeled on had to do this as a scatterlist
// segment split at a page boundary because its buffers were physical
// pages; a Go engine has no such constraint, so the codec simply hands
// the inner engine one contiguous []byte built from head+tail. Chain
// exists as a single named seam so the "at most one conceptual split"
// shape from the original design stays visible and testable, even though
// there is only one segment in practice.
func Chain(head, tail []byte) []byte {
	out := make([]byte, len(head)+len(tail))
	copy(out, head)
	copy(out[len(head):], tail)
	return out
}
