package signing

import (
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

const (
	// ComponentSize is the width in bytes of r and s in a fixed-form signature.
	ComponentSize = 32
	// FixedSignatureSize is the length of r || s.
	FixedSignatureSize = 2 * ComponentSize
)

// parseDERSignature reads the ASN.1 SEQUENCE { r INTEGER, s INTEGER } produced
// by ecdsa.SignASN1. Trailing bytes are rejected.
func parseDERSignature(der []byte) (*big.Int, *big.Int, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, nil, errors.New("malformed DER signature")
	}
	if r.Sign() <= 0 || s.Sign() <= 0 {
		return nil, nil, errors.New("signature component is not positive")
	}
	return r, s, nil
}

// EncodeFixed returns pad32(r) || pad32(s). Short components are left-padded
// with zeros; components longer than ComponentSize are an error.
func EncodeFixed(r, s *big.Int) ([]byte, error) {
	sig := make([]byte, FixedSignatureSize)
	if err := fillComponent("r", r, sig[:ComponentSize]); err != nil {
		return nil, err
	}
	if err := fillComponent("s", s, sig[ComponentSize:]); err != nil {
		return nil, err
	}
	return sig, nil
}

func fillComponent(name string, v *big.Int, dst []byte) error {
	if v == nil || v.Sign() < 0 {
		return errors.Errorf("signature component %s must be a non-negative integer", name)
	}
	if size := (v.BitLen() + 7) / 8; size > len(dst) {
		return &EncodingOverflowError{Component: name, Size: size}
	}
	v.FillBytes(dst)
	return nil
}

// DecodeFixed splits a 64-byte fixed-form signature back into r and s.
func DecodeFixed(sig []byte) (*big.Int, *big.Int, error) {
	if len(sig) != FixedSignatureSize {
		return nil, nil, errors.Errorf("fixed-form signature must be %d bytes, got %d", FixedSignatureSize, len(sig))
	}
	r := new(big.Int).SetBytes(sig[:ComponentSize])
	s := new(big.Int).SetBytes(sig[ComponentSize:])
	return r, s, nil
}
