package sealmail

import (
	"io"

	"github.com/sirupsen/logrus"
)

// config holds shared configuration for KeyStore, Codec, and MessageCrypto.
type config struct {
	log       logrus.FieldLogger
	keyRingID string
}

func defaultConfig() config {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return config{log: log}
}

// Option configures a KeyStore, Codec, or MessageCrypto.
type Option func(*config)

// WithLogger sets the logger. By default logging is discarded.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithKeyRingID sets the key ring identifier recorded in key archives.
// Default: a random UUID per KeyStore.
func WithKeyRingID(id string) Option {
	return func(c *config) {
		c.keyRingID = id
	}
}
