package app

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cds-snc/payload-signer/pkg/signing"
	"github.com/cds-snc/payload-signer/pkg/testhelpers"
)

func writeKey(t *testing.T, curve elliptic.Curve) (string, *ecdsa.PrivateKey) {
	privateKey, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(privateKey)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "private.pem")
	require.NoError(t, ioutil.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), 0600))
	return path, privateKey
}

func TestNewSignerLoadsOnce(t *testing.T) {
	hook, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	path, privateKey := writeKey(t, elliptic.P256())

	signer := newSigner(path, false)
	testhelpers.AssertLogField(t, hook, "curve", "P-256")
	testhelpers.AssertLog(t, hook, 1, logrus.InfoLevel, "loaded private key")

	// the key stays in memory once loaded
	require.NoError(t, os.Remove(path))

	signature, err := signer.Sign([]byte("hello"))
	require.NoError(t, err)
	ok, err := signing.Verify(&privateKey.PublicKey, []byte("hello"), signature)
	assert.NoError(t, err)
	assert.True(t, ok, "should sign with the key loaded at startup")
}

func TestNewSignerWarnsOnOtherCurves(t *testing.T) {
	hook, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	path, _ := writeKey(t, elliptic.P384())

	newSigner(path, false)

	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
	assert.Equal(t, "P-384", hook.Entries[0].Data["curve"])
	testhelpers.AssertLog(t, hook, 2, logrus.InfoLevel, "loaded private key")
}

func TestNewSignerReloadPerRequest(t *testing.T) {
	hook, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	path := filepath.Join(t.TempDir(), "private.pem")

	signer := newSigner(path, true)
	testhelpers.AssertLog(t, hook, 1, logrus.WarnLevel, "private key will be read on every request")

	_, err := signer.Sign([]byte("hello"))
	var keyErr *signing.KeyLoadError
	assert.True(t, errors.As(err, &keyErr), "a missing key file should fail the request, not startup")
}

func TestNewSignerMissingKeyIsFatal(t *testing.T) {
	hook, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	signer := newSigner(filepath.Join(t.TempDir(), "private.pem"), false)

	testhelpers.AssertLog(t, hook, 1, logrus.FatalLevel, "could not load private key")
	_, err := signer.Sign([]byte("hello"))
	assert.Error(t, err)
}

func TestAppBuilderWithSigning(t *testing.T) {
	_, oldLog := testhelpers.SetupTestLogging(&log)
	defer func() { log = *oldLog }()

	path, _ := writeKey(t, elliptic.P256())
	os.Setenv("PRIVATE_KEY_PATH", path)
	defer os.Unsetenv("PRIVATE_KEY_PATH")

	builder := NewBuilder()
	assert.Len(t, builder.servlets, 1, "should register the services servlet")
	assert.Equal(t, uint32(5000), builder.defaultServerPort)

	builder.WithSigning()
	assert.Len(t, builder.servlets, 2, "should register the sign servlet")
	signer := builder.signer

	builder.WithLedgerSigning()
	assert.Len(t, builder.servlets, 3, "should register the ledger servlet")
	assert.Same(t, signer, builder.signer, "both servlets should share one signer")

	app, stats := builder.Build()
	assert.NotNil(t, app)
	assert.Same(t, builder.stats, stats)
	assert.Len(t, builder.components, 1, "should add the HTTP server component")
}

func TestBindAddr(t *testing.T) {
	os.Unsetenv("BIND_ADDR")
	os.Unsetenv("PORT")
	assert.Equal(t, "0.0.0.0:5000", bindAddr(5000))

	os.Setenv("PORT", "8080")
	defer os.Unsetenv("PORT")
	assert.Equal(t, "0.0.0.0:8080", bindAddr(5000))

	os.Setenv("BIND_ADDR", "127.0.0.1:9000")
	defer os.Unsetenv("BIND_ADDR")
	assert.Equal(t, "127.0.0.1:9000", bindAddr(5000))
}
