// Package msgsign signs and verifies arbitrary node messages using the
// signing protocol shared by lnd and c-lightning:
//
//	signature = zbase32(SigRec(sha256d("Lightning Signed Message:" + msg)))
//
// SigRec is a 65 byte recoverable signature whose first byte is 31 plus the
// recovery id, followed by the 64 byte compact signature. Signatures are EC
// recoverable, so the signer's public key can be extracted from the message
// and signature alone.
package msgsign

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/tv42/zbase32"
)

// signedMsgPrefix is a special prefix prepended to all signed messages
// before hashing, so a signed message can never double as a valid signature
// for other data, for example a transaction sighash.
var signedMsgPrefix = []byte("Lightning Signed Message:")

// messageDigest returns the double-SHA256 of the message prepended with the
// signed message prefix, which is the digest actually being signed.
func messageDigest(msg []byte) []byte {
	msgWithPrefix := make([]byte, 0, len(signedMsgPrefix)+len(msg))
	msgWithPrefix = append(msgWithPrefix, signedMsgPrefix...)
	msgWithPrefix = append(msgWithPrefix, msg...)

	return chainhash.DoubleHashB(msgWithPrefix)
}

// SignMessage signs the message with the given private key, producing a
// zbase32 encoded recoverable signature. A receiver knowing the public key,
// for example the node's identity key, and the message can be sure the
// signature was generated by the holder of the key.
func SignMessage(privKey *btcec.PrivateKey, msg []byte) string {
	sig := ecdsa.SignCompact(privKey, messageDigest(msg), true)

	return zbase32.EncodeToString(sig)
}

// RecoverPubKey recovers the public key of the signer from the message and
// its signature.
func RecoverPubKey(msg []byte, sig string) (*btcec.PublicKey, error) {
	sigBytes, err := zbase32.DecodeString(sig)
	if err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %w", err)
	}

	pubKey, _, err := ecdsa.RecoverCompact(sigBytes, messageDigest(msg))
	if err != nil {
		return nil, fmt.Errorf("unable to recover public key: %w",
			err)
	}

	return pubKey, nil
}

// VerifyMessage returns true if the signature over the message recovers to
// the given public key. Malformed signatures simply fail verification.
func VerifyMessage(msg []byte, sig string, pubKey *btcec.PublicKey) bool {
	recovered, err := RecoverPubKey(msg, sig)
	if err != nil {
		return false
	}

	return recovered.IsEqual(pubKey)
}
