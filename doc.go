// Package sealmail implements the client-side core of the sealmail
// encrypted email platform: key lifecycle management, attribute sealing,
// hybrid per-recipient message encryption, and RFC 822/MIME encoding and
// decoding.
//
// The package performs no I/O of its own. Key material lives behind the
// KeyStoreProvider interface (a platform keystore on device, the bundled
// in-memory provider in tests), and callers supply and consume raw message
// bytes; transport and storage belong to the surrounding application.
//
// Basic usage:
//
//	keys := sealmail.NewKeyStore(sealmail.NewMemoryProvider())
//	pair, err := keys.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := sealmail.NewMessageCrypto(keys)
//	result, err := engine.Encrypt(msg, recipients, sealmail.EncryptOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// result.Raw is a standards-compliant MIME message ready for delivery.
//
// Received messages reverse the flow:
//
//	msg, err := engine.Decrypt(raw, pair.KeyID)
package sealmail
