package signing

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"
)

// Signer returns the base64 fixed-form ECDSA signature of a payload.
type Signer interface {
	Sign(payload []byte) (string, error)
}

type signer struct {
	keys KeySource
}

// NewSigner signs with a key that was loaded once and is never mutated.
func NewSigner(key *ecdsa.PrivateKey) Signer {
	return &signer{keys: staticKey{key: key}}
}

// NewFileSigner loads the key from path on every Sign call, so the file must
// stay readable for the lifetime of the process.
func NewFileSigner(path string) Signer {
	return &signer{keys: fileKey{path: path}}
}

func (s *signer) Sign(payload []byte) (string, error) {
	key, err := s.keys.PrivateKey()
	if err != nil {
		return "", err
	}
	return SignPayload(key, payload)
}

// SignPayload hashes payload with SHA-256, signs the digest and returns
// base64(pad32(r) || pad32(s)).
func SignPayload(key *ecdsa.PrivateKey, payload []byte) (string, error) {
	if key == nil {
		return "", &SignError{Err: errors.New("nil private key")}
	}

	digest := sha256.Sum256(payload)
	der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	if err != nil {
		return "", &SignError{Err: err}
	}

	r, s, err := parseDERSignature(der)
	if err != nil {
		return "", &SignError{Err: err}
	}

	fixed, err := EncodeFixed(r, s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(fixed), nil
}

// Verify checks a signature produced by SignPayload against payload.
func Verify(pub *ecdsa.PublicKey, payload []byte, signature string) (bool, error) {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false, errors.Wrap(err, "decode signature")
	}
	r, s, err := DecodeFixed(raw)
	if err != nil {
		return false, err
	}
	digest := sha256.Sum256(payload)
	return ecdsa.Verify(pub, digest[:], r, s), nil
}
