package app

import (
	"crypto/elliptic"
	"fmt"
	"os"
	"time"

	"github.com/Shopify/goose/genmain"
	"github.com/Shopify/goose/logger"
	"github.com/Shopify/goose/srvutil"

	"github.com/cds-snc/payload-signer/pkg/config"
	"github.com/cds-snc/payload-signer/pkg/server"
	"github.com/cds-snc/payload-signer/pkg/signing"
)

var log = logger.New("app")

type App struct {
	*genmain.Main
}

type AppBuilder struct {
	defaultServerPort uint32
	components        []genmain.Component
	servlets          []srvutil.Servlet
	stats             *signing.Stats
	signer            signing.Signer
}

func NewBuilder() *AppBuilder {
	config.InitConfig() // read configuration into a structure
	builder := &AppBuilder{
		defaultServerPort: config.AppConstants.DefaultServerPort,
		stats:             &signing.Stats{},
	}
	builder.servlets = append(builder.servlets, server.NewServicesServlet())
	return builder
}

func (a *AppBuilder) WithSigning() *AppBuilder {
	a.servlets = append(a.servlets, server.NewSignServlet(a.sharedSigner()))
	return a
}

func (a *AppBuilder) WithLedgerSigning() *AppBuilder {
	a.servlets = append(a.servlets, server.NewLedgerServlet(a.sharedSigner()))
	return a
}

// sharedSigner loads the key the first time a signing servlet asks for it.
func (a *AppBuilder) sharedSigner() signing.Signer {
	if a.signer == nil {
		signer := newSigner(config.AppConstants.PrivateKeyPath, config.AppConstants.ReloadKeyPerRequest)
		a.signer = signing.WithStats(signer, a.stats)
	}
	return a.signer
}

func (a *AppBuilder) Build() (*App, *signing.Stats) {
	a.components = append(a.components, server.New(bindAddr(a.defaultServerPort), a.servlets))

	main := genmain.New(a.components...)
	main.SetShutdownDeadline(time.Duration(config.AppConstants.ShutdownDeadlineSeconds) * time.Second)
	return &App{&main}, a.stats
}

// newSigner loads the key once at startup unless reload is set, in which case
// every request reads keyPath again.
func newSigner(keyPath string, reload bool) signing.Signer {
	if reload {
		log(nil, nil).WithField("path", keyPath).Warn("private key will be read on every request")
		return signing.NewFileSigner(keyPath)
	}

	key, err := signing.LoadPrivateKey(keyPath)
	if err != nil {
		log(nil, err).WithField("path", keyPath).Fatal("could not load private key")
		return signing.NewSigner(nil)
	}

	curve := key.Curve.Params().Name
	if curve != elliptic.P256().Params().Name {
		log(nil, nil).WithField("curve", curve).Warn("private key is not P-256, signatures may not fit the fixed 64-byte form")
	}
	log(nil, nil).WithField("path", keyPath).WithField("curve", curve).Info("loaded private key")
	return signing.NewSigner(key)
}

func bindAddr(defaultPort uint32) string {
	if bindAddr := os.Getenv("BIND_ADDR"); bindAddr != "" {
		return bindAddr
	}
	if port := os.Getenv("PORT"); port != "" {
		return "0.0.0.0:" + port
	}
	return fmt.Sprintf("0.0.0.0:%d", defaultPort)
}
