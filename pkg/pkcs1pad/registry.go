package pkcs1pad

import (
	"fmt"
	"strings"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
)

// MaxNameLength bounds the published template name, modeled on the Linux
// kernel crypto API's identifier ceiling (CRYPTO_MAX_ALG_NAME). There is no
// kernel-wide crypto API to publish into here, so pkcs1pad enforces the
// same ceiling against its own name string.
const MaxNameLength = 128

// ParseTemplate parses a registry template of the form
// "pkcs1pad(<inner>)" or "pkcs1pad(<inner>,<hash>)", returning the inner
// transform name and the optional hash name (empty if absent). No
// validation of hash is performed here; DigestInfo lookup happens lazily
// at Sign/Verify time.
func ParseTemplate(template string) (inner, hash string, err error) {
	const prefix, suffix = "pkcs1pad(", ")"
	if !strings.HasPrefix(template, prefix) || !strings.HasSuffix(template, suffix) {
		return "", "", fmt.Errorf("pkcs1pad: malformed template %q", template)
	}

	args := template[len(prefix) : len(template)-len(suffix)]
	parts := strings.SplitN(args, ",", 2)
	inner = strings.TrimSpace(parts[0])
	if inner == "" {
		return "", "", fmt.Errorf("pkcs1pad: malformed template %q: missing inner transform", template)
	}
	if len(parts) == 2 {
		hash = strings.TrimSpace(parts[1])
	}
	return inner, hash, nil
}

// NewFromTemplate resolves template via ParseTemplate, looks up the named
// inner transform in internal/akcipher's registry, and returns a ready
// Transform plus the canonical name it would be published under. Publishing
// itself (making the name resolvable by other callers) is left to the
// caller.
func NewFromTemplate(template string, opts ...Option) (tfm *Transform, name string, err error) {
	innerName, hash, err := ParseTemplate(template)
	if err != nil {
		return nil, "", err
	}

	factory, err := akcipher.Lookup(innerName)
	if err != nil {
		return nil, "", fmt.Errorf("pkcs1pad: %w", err)
	}

	if hash != "" {
		name = fmt.Sprintf("pkcs1pad(%s,%s)", innerName, hash)
	} else {
		name = fmt.Sprintf("pkcs1pad(%s)", innerName)
	}
	if len(name) > MaxNameLength {
		return nil, "", fmt.Errorf("pkcs1pad: template name %q exceeds maximum length %d", name, MaxNameLength)
	}

	return New(factory(), hash, opts...), name, nil
}
