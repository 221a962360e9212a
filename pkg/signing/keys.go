package signing

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"

	"github.com/pkg/errors"
)

const (
	pemTypeECPrivateKey    = "EC PRIVATE KEY"
	pemTypePKCS8PrivateKey = "PRIVATE KEY"
	pemTypeECParameters    = "EC PARAMETERS"
	pemTypeEncryptedPKCS8  = "ENCRYPTED PRIVATE KEY"
)

// KeySource hands out the private key used for a signature.
type KeySource interface {
	PrivateKey() (*ecdsa.PrivateKey, error)
}

type staticKey struct {
	key *ecdsa.PrivateKey
}

func (k staticKey) PrivateKey() (*ecdsa.PrivateKey, error) {
	if k.key == nil {
		return nil, &KeyLoadError{Err: errors.New("no private key configured")}
	}
	return k.key, nil
}

// fileKey re-reads the key file on every call.
type fileKey struct {
	path string
}

func (k fileKey) PrivateKey() (*ecdsa.PrivateKey, error) {
	return LoadPrivateKey(k.path)
}

// LoadPrivateKey reads an unencrypted PEM-encoded EC private key from path.
func LoadPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &KeyLoadError{Path: path, Err: err}
	}
	key, err := ParsePrivateKey(data)
	if err != nil {
		return nil, &KeyLoadError{Path: path, Err: err}
	}
	return key, nil
}

// ParsePrivateKey accepts SEC 1 and PKCS #8 PEM blocks. An EC PARAMETERS block
// ahead of the key, as written by `openssl ecparam -genkey`, is skipped.
func ParsePrivateKey(data []byte) (*ecdsa.PrivateKey, error) {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, errors.New("no PEM private key block found")
		}

		if block.Type == pemTypeEncryptedPKCS8 || x509.IsEncryptedPEMBlock(block) {
			return nil, errors.New("encrypted private keys are not supported")
		}

		switch block.Type {
		case pemTypeECParameters:
			continue
		case pemTypeECPrivateKey:
			key, err := x509.ParseECPrivateKey(block.Bytes)
			if err != nil {
				return nil, errors.Wrap(err, "parse SEC 1 private key")
			}
			return key, nil
		case pemTypePKCS8PrivateKey:
			parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			if err != nil {
				return nil, errors.Wrap(err, "parse PKCS #8 private key")
			}
			key, ok := parsed.(*ecdsa.PrivateKey)
			if !ok {
				return nil, errors.Errorf("private key is %T, not an EC key", parsed)
			}
			return key, nil
		default:
			return nil, errors.Errorf("unsupported PEM block type %q", block.Type)
		}
	}
}
