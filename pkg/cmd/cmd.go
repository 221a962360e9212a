package cmd

import (
	"github.com/Shopify/goose/logger"
	"github.com/Shopify/goose/safely"

	"github.com/cds-snc/payload-signer/pkg/app"
	"github.com/cds-snc/payload-signer/pkg/telemetry"
)

var log = logger.New("cmd")

func RunAndWait(appBuilder *app.AppBuilder) {
	defer safely.Recover() // panics -> bugsnag

	log(nil, nil).Info("starting")

	mainApp, stats := appBuilder.Build()

	defer telemetry.Initialize(stats).Cleanup()

	err := mainApp.RunAndWait()
	defer log(nil, err).Info("final message before shutdown")
}
