package anchorreserve

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightninglabs/anchorreserve/lntypes"
)

// ErrUnsupportedScript is returned when an output of a script class the
// wallet cannot spend with a single signature is offered up as reserve.
var ErrUnsupportedScript = errors.New("unsupported script class")

// Utxo is an unspent wallet output counted towards the anchor channel
// reserve.
type Utxo struct {
	// OutPoint identifies the output on chain.
	OutPoint wire.OutPoint

	// Value is the value of the output.
	Value btcutil.Amount

	// PkScript is the public key script of the output.
	PkScript []byte

	// SatisfactionWeight is the weight of the data satisfying the output
	// when it is spent: the script sig, its length prefix, and the
	// serialized witness. The outpoint and sequence are accounted for by
	// the spending transaction itself.
	SatisfactionWeight lntypes.WeightUnit
}

// NewUtxo populates a Utxo for an output of a known script class, deriving
// the satisfaction weight from the script type. Outputs the wallet cannot
// spend with a single signature are rejected.
func NewUtxo(op wire.OutPoint, value btcutil.Amount,
	pkScript []byte) (Utxo, error) {

	var satisfactionWeight lntypes.WeightUnit
	switch {
	case txscript.IsPayToWitnessPubKeyHash(pkScript):
		satisfactionWeight = P2WPKHSatisfactionWeight

	case txscript.IsPayToTaproot(pkScript):
		satisfactionWeight = P2TRSatisfactionWeight

	default:
		return Utxo{}, fmt.Errorf("unsupported reserve utxo script "+
			"%x: %w", pkScript, ErrUnsupportedScript)
	}

	return Utxo{
		OutPoint:           op,
		Value:              value,
		PkScript:           pkScript,
		SatisfactionWeight: satisfactionWeight,
	}, nil
}
