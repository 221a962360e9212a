package config

import (
	"github.com/Shopify/goose/logger"
	"github.com/spf13/viper"
)

var log = logger.New("config")

type Constants struct {
	DefaultServerPort       uint32
	ShutdownDeadlineSeconds uint32
	PrivateKeyPath          string
	PayloadPath             string
	ReloadKeyPerRequest     bool
	MaxRequestBytes         int64
}

var AppConstants Constants

func InitConfig() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../../")
	viper.SetConfigType("yaml")
	setDefaults()
	bindEnv()
	if err := viper.ReadInConfig(); err != nil {
		log(nil, err).Debug("no config file read, using defaults and environment")
	}
	err := viper.Unmarshal(&AppConstants)
	if err != nil {
		log(nil, err).Error("unable to unmarshal the config file")
	}
}

func setDefaults() {
	viper.SetDefault("defaultServerPort", 5000)
	viper.SetDefault("shutdownDeadlineSeconds", 1)
	viper.SetDefault("privateKeyPath", "private.pem")
	viper.SetDefault("payloadPath", "encoded_payload.txt")
	viper.SetDefault("reloadKeyPerRequest", false)
	// 0 disables the request body limit
	viper.SetDefault("maxRequestBytes", 0)
}

func bindEnv() {
	_ = viper.BindEnv("privateKeyPath", "PRIVATE_KEY_PATH")
	_ = viper.BindEnv("payloadPath", "PAYLOAD_PATH")
	_ = viper.BindEnv("reloadKeyPerRequest", "RELOAD_KEY_PER_REQUEST")
	_ = viper.BindEnv("maxRequestBytes", "MAX_REQUEST_BYTES")
}
