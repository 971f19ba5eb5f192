package anchorreserve

import (
	"github.com/btcsuite/btcd/blockchain"
	"github.com/lightninglabs/anchorreserve/lntypes"
)

const (
	// The weight, which is different from the !size! (see BIP-141), is
	// calculated as:
	// Weight = 4 * BaseSize + WitnessSize (weight).
	// BaseSize - size of the transaction without witness data (bytes).
	// WitnessSize - witness size (bytes).

	// witnessScale is the scale factor applied to non-witness bytes when
	// computing the weight of a transaction.
	witnessScale = blockchain.WitnessScaleFactor

	// p2wpkhSize 22 bytes
	//	- OP_0: 1 byte
	//	- OP_DATA: 1 byte (PublicKeyHASH160 length)
	//	- PublicKeyHASH160: 20 bytes
	p2wpkhSize = 1 + 1 + 20

	// p2trSize 34 bytes
	//	- OP_1: 1 byte
	//	- OP_DATA: 1 byte (TaprootKey length)
	//	- TaprootKey: 32 bytes
	p2trSize = 1 + 1 + 32

	// anchorScriptSize 40 bytes
	//	- OP_DATA: 1 byte (funding pubkey length)
	//	- FundingPubKey: 33 bytes
	//	- OP_CHECKSIG: 1 byte
	//	- OP_IFDUP: 1 byte
	//	- OP_NOTIF: 1 byte
	//	- OP_16: 1 byte
	//	- OP_CHECKSEQUENCEVERIFY: 1 byte
	//	- OP_ENDIF: 1 byte
	anchorScriptSize = 1 + 33 + 6

	// inputSize 41 bytes
	//	- PreviousOutPoint:
	//		- Hash: 32 bytes
	//		- Index: 4 bytes
	//	- ScriptSigLength: 1 byte (empty for witness spends)
	//	- Sequence: 4 bytes
	inputSize = 32 + 4 + 1 + 4

	// witnessHeaderSize 2 bytes
	//	- Flag: 1 byte
	//	- Marker: 1 byte
	witnessHeaderSize = 1 + 1

	// baseTxSize 10 bytes
	//	- Version: 4 bytes
	//	- CountTxIn: 1 byte
	//	- CountTxOut: 1 byte
	//	- LockTime: 4 bytes
	baseTxSize = 4 + 1 + 1 + 4

	// p2wpkhWitnessSize 108 bytes
	//	- NumberOfWitnessElements: 1 byte
	//	- SigLength: 1 byte
	//	- Sig: 72 bytes (maximum length DER-encoded)
	//	- PubKeyLength: 1 byte
	//	- PubKey: 33 bytes
	p2wpkhWitnessSize = 1 + 1 + 72 + 1 + 33

	// p2trKeySpendWitnessSize 66 bytes
	//	- NumberOfWitnessElements: 1 byte
	//	- SigLength: 1 byte
	//	- Sig: 64 bytes (Schnorr, SIGHASH_DEFAULT)
	p2trKeySpendWitnessSize = 1 + 1 + 64

	// anchorWitnessSize 115 bytes
	//	- NumberOfWitnessElements: 1 byte
	//	- SigLength: 1 byte
	//	- Sig: 72 bytes (maximum length DER-encoded)
	//	- WitnessScriptLength: 1 byte
	//	- WitnessScript (anchorScript)
	anchorWitnessSize = 1 + 1 + 72 + 1 + anchorScriptSize

	// p2wpkhOutputSize 31 bytes
	//	- Value: 8 bytes
	//	- VarInt: 1 byte (PkScript length)
	//	- PkScript (P2WPKH)
	p2wpkhOutputSize = 8 + 1 + p2wpkhSize

	// p2trOutputSize 43 bytes
	//	- Value: 8 bytes
	//	- VarInt: 1 byte (PkScript length)
	//	- PkScript (P2TR)
	p2trOutputSize = 8 + 1 + p2trSize
)

// Expected weights of the transactions a node must be able to confirm to
// claim the full value of an anchor channel unilaterally. The commitment
// weights follow the expected weights of BOLT #3 (appendix A) for channels
// with anchor outputs, the remaining weights are derived field by field from
// the serialized transactions. All of them are consensus compatibility
// values rather than tunables.
const (
	// AnchorCommitWeight 1124 weight
	//
	// The weight of a commitment transaction that commits to two anchor
	// outputs and no HTLCs: 900 weight of base transaction data plus 224
	// weight for the witness spending the 2-of-2 funding output.
	AnchorCommitWeight lntypes.WeightUnit = 900 + 224

	// HTLCWeight 172 weight
	//
	// The marginal weight one HTLC output adds to a commitment
	// transaction:
	//	- Value: 8 bytes
	//	- VarInt: 1 byte (PkScript length)
	//	- PkScript (P2WSH): 34 bytes
	HTLCWeight lntypes.WeightUnit = 172

	// HtlcSuccessWeight 706 weight
	//
	// The expected weight of a second level HTLC success transaction
	// claiming an accepted HTLC with its preimage, for channels with
	// anchor outputs (the input spends a 1 block CSV encumbered output).
	HtlcSuccessWeight lntypes.WeightUnit = 706

	// HtlcTimeoutWeight 666 weight
	//
	// The expected weight of a second level HTLC timeout transaction
	// reclaiming an offered HTLC after its expiry, for channels with
	// anchor outputs.
	HtlcTimeoutWeight lntypes.WeightUnit = 666

	// BaseTxWeight 42 weight
	//
	// The weight of a transaction before any inputs or outputs are added:
	// the base transaction fields plus the witness header.
	BaseTxWeight lntypes.WeightUnit = baseTxSize*witnessScale +
		witnessHeaderSize

	// P2WPKHInputWeight 272 weight
	//
	// The weight of an input spending a P2WPKH wallet output, witness
	// included.
	P2WPKHInputWeight lntypes.WeightUnit = inputSize*witnessScale +
		p2wpkhWitnessSize

	// P2TRInputWeight 230 weight
	//
	// The weight of an input spending a P2TR wallet output through the
	// key path.
	P2TRInputWeight lntypes.WeightUnit = inputSize*witnessScale +
		p2trKeySpendWitnessSize

	// P2WPKHSatisfactionWeight 112 weight
	//
	// The weight of the data satisfying a P2WPKH output when it is
	// spent: the empty script sig length prefix plus the witness. The
	// outpoint and sequence are part of the spending transaction's input
	// weight instead.
	P2WPKHSatisfactionWeight lntypes.WeightUnit = 1*witnessScale +
		p2wpkhWitnessSize

	// P2TRSatisfactionWeight 70 weight
	//
	// The weight of the data satisfying a P2TR output through the key
	// path: the empty script sig length prefix plus the witness.
	P2TRSatisfactionWeight lntypes.WeightUnit = 1*witnessScale +
		p2trKeySpendWitnessSize

	// AnchorInputWeight 279 weight
	//
	// The weight of an input spending the P2WSH anchor output of a
	// commitment transaction, witness included.
	AnchorInputWeight lntypes.WeightUnit = inputSize*witnessScale +
		anchorWitnessSize

	// P2WPKHOutputWeight 124 weight
	//
	// The weight of a P2WPKH change output.
	P2WPKHOutputWeight lntypes.WeightUnit = p2wpkhOutputSize *
		witnessScale

	// P2TROutputWeight 172 weight
	//
	// The weight of a P2TR change output.
	P2TROutputWeight lntypes.WeightUnit = p2trOutputSize * witnessScale
)

// walletIOWeight returns the combined weight of one wallet input providing
// fees and one change output returning the surplus, for the output type the
// wallet controls.
func walletIOWeight(taprootWallet bool) lntypes.WeightUnit {
	if taprootWallet {
		return P2TRInputWeight + P2TROutputWeight
	}

	return P2WPKHInputWeight + P2WPKHOutputWeight
}

// AnchorSpendTxWeight returns the expected weight of a transaction CPFPing a
// commitment transaction through its anchor output, with one wallet input
// attached to pay the fee and one change output.
func AnchorSpendTxWeight(taprootWallet bool) lntypes.WeightUnit {
	return BaseTxWeight + AnchorInputWeight + walletIOWeight(taprootWallet)
}

// HtlcSuccessTxWeight returns the expected weight of a second level HTLC
// success transaction to which one wallet input and one change output were
// attached to pay the fee.
func HtlcSuccessTxWeight(taprootWallet bool) lntypes.WeightUnit {
	return HtlcSuccessWeight + walletIOWeight(taprootWallet)
}

// HtlcTimeoutTxWeight returns the expected weight of a second level HTLC
// timeout transaction to which one wallet input and one change output were
// attached to pay the fee.
func HtlcTimeoutTxWeight(taprootWallet bool) lntypes.WeightUnit {
	return HtlcTimeoutWeight + walletIOWeight(taprootWallet)
}
