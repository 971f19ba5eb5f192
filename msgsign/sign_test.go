package msgsign

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

// testPrivKey is the private key with scalar one. Since signing uses
// deterministic RFC6979 nonces, its signatures are reproducible across
// implementations.
var testPrivKey, testPubKey = btcec.PrivKeyFromBytes([]byte{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
})

// testSig is the signature of "test message" under testPrivKey.
const testSig = "d9tibmnic9t5y41hg7hkakdcra94akas9ku3rmmj4ag9mritc8ok4p5qze" +
	"fs78c9pqfhpuftqqzhydbdwfg7u6w6wdxcqpqn4sj4e73e"

// TestSignMessage checks the signature of a fixed message against its known
// value.
func TestSignMessage(t *testing.T) {
	t.Parallel()

	sig := SignMessage(testPrivKey, []byte("test message"))
	require.Equal(t, testSig, sig)
}

// TestRecoverPubKey checks that the signer's public key is recoverable from
// the message and signature alone.
func TestRecoverPubKey(t *testing.T) {
	t.Parallel()

	pubKey, err := RecoverPubKey([]byte("test message"), testSig)
	require.NoError(t, err)
	require.True(t, pubKey.IsEqual(testPubKey))

	// A signature that doesn't decode yields an error rather than a
	// key.
	_, err = RecoverPubKey([]byte("test message"), "not-zbase32!")
	require.Error(t, err)

	// So does a decodable but truncated signature.
	_, err = RecoverPubKey([]byte("test message"), "ybndrfg8e")
	require.Error(t, err)
}

// TestVerifyMessage checks the full sign and verify round trip.
func TestVerifyMessage(t *testing.T) {
	t.Parallel()

	msg := []byte("another message")
	sig := SignMessage(testPrivKey, msg)

	require.True(t, VerifyMessage(msg, sig, testPubKey))

	// Any change to the message invalidates the signature.
	require.False(t, VerifyMessage(
		[]byte("another message!"), sig, testPubKey,
	))

	// A signature by a different key does not verify.
	otherPriv, _ := btcec.PrivKeyFromBytes([]byte{
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2,
	})
	require.False(t, VerifyMessage(
		msg, SignMessage(otherPriv, msg), testPubKey,
	))

	// Malformed signatures simply fail verification.
	require.False(t, VerifyMessage(msg, "garbage", testPubKey))
}

// TestVerifyMessageCompat verifies signatures produced by c-lightning
// nodes, pinning cross-implementation compatibility. The vectors are taken
// from
// https://github.com/ElementsProject/lightning/blob/1275af6fbb02460c8eb2f00990bb0ef9179ce8f3/tests/test_misc.py#L1925-L1938
func TestVerifyMessageCompat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		msg    string
		sig    string
		pubKey string
	}{{
		name: "bitconner",
		msg:  "is this compatible?",
		sig: "rbgfioj114mh48d8egqx8o9qxqw4fmhe8jbeeabdioxnjk8z3t1ma1h" +
			"u1fiswpakgucwwzwo6ofycffbsqusqdimugbh41n1g698hr9t",
		pubKey: "02b80cabdf82638aac86948e4c06e82064f547768dcef977677b" +
			"9ea931ea75bab5",
	}, {
		name: "duck1123",
		msg:  "hi",
		sig: "rnrphcjswusbacjnmmmrynh9pqip7sy5cx695h6mfu64iac6qmcmsd8" +
			"xnsyczwmpqp9shqkth3h4jmkgyqu5z47jfn1q7gpxtaqpx4xg",
		pubKey: "02de60d194e1ca5947b59fe8e2efd6aadeabfb67f2e89e13ae1a" +
			"799c1e08e4a43b",
	}, {
		name: "jochemin",
		msg:  "hi",
		sig: "ry8bbsopmduhxy3dr5d9ekfeabdpimfx95kagdem7914wtca79jwamt" +
			"bw4rxh69hg7n6x9ty8cqk33knbxaqftgxsfsaeprxkn1k48p3",
		pubKey: "022b8ece90ee891cbcdac0c1cc6af46b73c47212d8defbce8026" +
			"5ac81a6b794931",
	}}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			keyBytes, err := hex.DecodeString(tc.pubKey)
			require.NoError(t, err)

			pubKey, err := btcec.ParsePubKey(keyBytes)
			require.NoError(t, err)

			require.True(t, VerifyMessage(
				[]byte(tc.msg), tc.sig, pubKey,
			))

			recovered, err := RecoverPubKey([]byte(tc.msg), tc.sig)
			require.NoError(t, err)
			require.True(t, recovered.IsEqual(pubKey))
		})
	}
}
