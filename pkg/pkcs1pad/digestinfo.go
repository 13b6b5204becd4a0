package pkcs1pad

import (
	encasn1 "encoding/asn1"

	"golang.org/x/crypto/cryptobyte"
	casn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// digestInfoTemplate is the static, read-only record the DigestInfo Table
// is built from: a hash algorithm name and the DER bytes that precede the
// raw digest in a PKCS#1 v1.5 signature (RFC 3447 Appendix A.2.4).
//
// The table is closed: there is no runtime registration. Lookup is a
// linear scan over this slice.
type digestInfoTemplate struct {
	name   string
	prefix []byte
}

// digestSpec names one supported hash and the byte length of its digest,
// used only at init() time to construct digestInfoTable.
type digestSpec struct {
	name   string
	oid    encasn1.ObjectIdentifier
	length int
}

// Supported hash names and their digest lengths.
var digestSpecs = []digestSpec{
	{"md5", encasn1.ObjectIdentifier{1, 2, 840, 113549, 2, 5}, 16},
	{"sha1", encasn1.ObjectIdentifier{1, 3, 14, 3, 2, 26}, 20},
	{"rmd160", encasn1.ObjectIdentifier{1, 3, 36, 3, 2, 1}, 20},
	{"sha224", encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 4}, 28},
	{"sha256", encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}, 32},
	{"sha384", encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2}, 48},
	{"sha512", encasn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}, 64},
}

var digestInfoTable []digestInfoTemplate

func init() {
	for _, spec := range digestSpecs {
		digestInfoTable = append(digestInfoTable, digestInfoTemplate{
			name:   spec.name,
			prefix: buildDigestInfoPrefix(spec.oid, spec.length),
		})
	}
}

// buildDigestInfoPrefix builds the DER encoding of
//
//	DigestInfo ::= SEQUENCE {
//	  digestAlgorithm AlgorithmIdentifier,
//	  digest OCTET STRING
//	}
//
// with a zero-filled placeholder digest of the given length, then strips
// the placeholder bytes back off. What remains is every byte up to and
// including the OCTET STRING's length octet — the fixed prefix the caller's
// real digest is appended to at sign time.
func buildDigestInfoPrefix(oid encasn1.ObjectIdentifier, digestLen int) []byte {
	var alg cryptobyte.Builder
	alg.AddASN1(casn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(oid)
		b.AddASN1NULL()
	})

	var outer cryptobyte.Builder
	outer.AddASN1(casn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddBytes(alg.BytesOrPanic())
		b.AddASN1OctetString(make([]byte, digestLen))
	})

	full := outer.BytesOrPanic()
	return full[:len(full)-digestLen]
}

// lookupDigestInfo returns the template for name (case-sensitive lowercase,
// e.g. "sha256"), or false if name is not one of the seven supported
// hashes.
func lookupDigestInfo(name string) (digestInfoTemplate, bool) {
	for _, t := range digestInfoTable {
		if t.name == name {
			return t, true
		}
	}
	return digestInfoTemplate{}, false
}
