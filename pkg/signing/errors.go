package signing

import "fmt"

// KeyLoadError is returned when the private key file cannot be read or parsed.
type KeyLoadError struct {
	Path string
	Err  error
}

func (e *KeyLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load private key: %v", e.Err)
	}
	return fmt.Sprintf("load private key %s: %v", e.Path, e.Err)
}

func (e *KeyLoadError) Unwrap() error {
	return e.Err
}

// SignError is returned when the signing primitive fails or produces a
// signature that cannot be decoded.
type SignError struct {
	Err error
}

func (e *SignError) Error() string {
	return fmt.Sprintf("sign payload: %v", e.Err)
}

func (e *SignError) Unwrap() error {
	return e.Err
}

// EncodingOverflowError is returned when r or s does not fit in ComponentSize bytes.
type EncodingOverflowError struct {
	Component string
	Size      int
}

func (e *EncodingOverflowError) Error() string {
	return fmt.Sprintf("signature component %s is %d bytes, exceeds %d", e.Component, e.Size, ComponentSize)
}
