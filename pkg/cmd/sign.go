package cmd

import (
	"fmt"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/cds-snc/payload-signer/pkg/signing"
)

// SignFile signs the raw bytes of payloadPath with the key at keyPath and
// writes the base64 signature and a newline to out.
func SignFile(keyPath, payloadPath string, out io.Writer) error {
	key, err := signing.LoadPrivateKey(keyPath)
	if err != nil {
		return err
	}

	payload, err := ioutil.ReadFile(payloadPath)
	if err != nil {
		return errors.Wrap(err, "read payload")
	}

	signature, err := signing.SignPayload(key, payload)
	if err != nil {
		return err
	}

	log(nil, nil).WithField("payload-bytes", len(payload)).Info("signed payload")
	if _, err := fmt.Fprintln(out, signature); err != nil {
		return errors.Wrap(err, "write signature")
	}
	return nil
}
