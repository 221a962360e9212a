package ledger

import (
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/cds-snc/payload-signer/pkg/signing"
)

// messagePrefix is prepended to the payload before hashing, as the Ledger
// exchange app does when it checks the partner signature.
const messagePrefix = "."

// Options selects how the payload is turned into the signed message.
type Options struct {
	// RawMessage signs the payload bytes without the "." prefix.
	RawMessage bool
}

// Result holds the payload and its r||s signature, both base64url without padding.
type Result struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Message returns the bytes that get hashed and signed for payload.
func Message(payload []byte, opts Options) []byte {
	if opts.RawMessage {
		return payload
	}
	return append([]byte(messagePrefix), payload...)
}

// Sign builds the swap payload for in and signs it with signer.
func Sign(signer signing.Signer, in Input, opts Options) (Result, error) {
	payload, err := Payload(in)
	if err != nil {
		return Result{}, err
	}

	signature, err := signer.Sign(Message(payload, opts))
	if err != nil {
		return Result{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return Result{}, errors.Wrap(err, "decode signature")
	}

	return Result{
		Payload:   base64.RawURLEncoding.EncodeToString(payload),
		Signature: base64.RawURLEncoding.EncodeToString(raw),
	}, nil
}
