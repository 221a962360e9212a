package main

import (
	"io"
	"os"

	"github.com/Shopify/goose/logger"
	"github.com/Shopify/goose/safely"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cds-snc/payload-signer/pkg/cmd"
	"github.com/cds-snc/payload-signer/pkg/config"
)

var log = logger.New("main")

func main() {
	defer safely.Recover()

	config.InitConfig()

	pflag.String("key", config.AppConstants.PrivateKeyPath, "PEM-encoded EC private key, also set with PRIVATE_KEY_PATH")
	_ = viper.BindPFlag("privateKeyPath", pflag.Lookup("key"))

	pflag.String("payload", config.AppConstants.PayloadPath, "file whose bytes are signed, also set with PAYLOAD_PATH")
	_ = viper.BindPFlag("payloadPath", pflag.Lookup("payload"))

	out := pflag.String("out", "", "write the signature to this file instead of stdout")
	pflag.Parse()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.OpenFile(*out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			log(nil, err).WithField("path", *out).Fatal("could not open output file")
		}
		defer f.Close()
		w = f
	}

	keyPath := viper.GetString("privateKeyPath")
	payloadPath := viper.GetString("payloadPath")
	if err := cmd.SignFile(keyPath, payloadPath, w); err != nil {
		log(nil, err).WithField("key", keyPath).WithField("payload", payloadPath).Fatal("signing failed")
	}
}
