package anchorreserve

import (
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightninglabs/anchorreserve/chainfee"
	"github.com/lightninglabs/anchorreserve/lntypes"
	"github.com/lightninglabs/anchorreserve/lnutils"
)

// maxAmount is the largest representable amount, used as the saturation
// point of the reserve arithmetic.
const maxAmount = btcutil.Amount(math.MaxInt64)

// saturatingFee returns the fee the given weight costs at the given fee
// rate, clamping at maxAmount instead of overflowing. Non-positive fee rates
// cost nothing.
func saturatingFee(feeRate chainfee.SatPerKWeight,
	wu lntypes.WeightUnit) btcutil.Amount {

	if feeRate <= 0 || wu == 0 {
		return 0
	}

	// Weights beyond the amount range saturate outright, which also
	// keeps the conversion below from wrapping.
	if wu >= lntypes.WeightUnit(math.MaxInt64) {
		return maxAmount
	}

	if btcutil.Amount(feeRate) > maxAmount/btcutil.Amount(wu) {
		return maxAmount
	}

	return feeRate.FeeForWeight(wu)
}

// saturatingAdd returns the sum of both amounts, clamping at maxAmount.
// Operands are expected to be non-negative.
func saturatingAdd(a, b btcutil.Amount) btcutil.Amount {
	if a > maxAmount-b {
		return maxAmount
	}

	return a + b
}

// saturatingSub returns a reduced by b, clamping at zero when b exceeds a.
func saturatingSub(a, b btcutil.Amount) btcutil.Amount {
	if b > a {
		return 0
	}

	return a - b
}

// RequiredReserve returns the amount that needs to be maintained as a
// reserve per anchor channel, sufficient to provide fees for all
// transactions required to unilaterally resolve the channel at the upper
// bound fee rate.
//
// The reserve currently needs to be allocated as a disjoint set of UTXOs
// per channel, as claims are only aggregated within a channel.
func RequiredReserve(ctx Context) btcutil.Amount {
	htlcs := lntypes.WeightUnit(ctx.ExpectedAcceptedHTLCs)

	// Each accepted HTLC is assumed to be forwarded as the upper bound.
	// Inbound payments would require less reserve, though confirmations
	// are still needed to publish the preimage through the mempool, and
	// outbound payments need none to avoid loss of funds.
	weight := AnchorCommitWeight + 2*htlcs*HTLCWeight +
		AnchorSpendTxWeight(ctx.TaprootWallet)

	// As an upper bound, each HTLC is assumed to be resolved in a
	// separate second level transaction, though claims may be aggregated
	// when timelocks and expiries allow it.
	weight += htlcs * HtlcSuccessTxWeight(ctx.TaprootWallet)
	weight += htlcs * HtlcTimeoutTxWeight(ctx.TaprootWallet)

	return saturatingFee(ctx.UpperBoundFeeRate, weight)
}

// SupportableChannels returns the number of anchor channels whose reserve
// requirement is covered by the given UTXO set under the given assumptions.
// The result is a conservative estimate rather than an exact packing.
func SupportableChannels(ctx Context, utxos []Utxo) uint64 {
	log.Tracef("Evaluating reserve coverage of %d utxos: %v", len(utxos),
		lnutils.SpewLogClosure(utxos))

	reservePerChannel := RequiredReserve(ctx)

	// Without a reserve requirement every output covers a channel by
	// itself. This also keeps the estimate below free of a division by
	// zero.
	if reservePerChannel == 0 {
		return uint64(len(utxos))
	}

	var (
		numWholeUtxos         uint64
		totalFractionalAmount btcutil.Amount
	)
	for _, utxo := range utxos {
		// Outputs covering the reserve on their own form a singleton
		// reserve set.
		if utxo.Value >= reservePerChannel {
			numWholeUtxos++
			continue
		}

		// Smaller outputs contribute their value net of the fee
		// required to spend them at the upper bound fee rate. An
		// output not worth its own spend contributes nothing.
		satisfactionFee := saturatingFee(
			ctx.UpperBoundFeeRate, utxo.SatisfactionWeight,
		)
		totalFractionalAmount = saturatingAdd(
			totalFractionalAmount,
			saturatingSub(utxo.Value, satisfactionFee),
		)
	}

	// Each channel requires a disjoint set of UTXOs for its reserve, as
	// claims are only aggregated within a channel. Whole UTXOs form
	// singleton sets, while a set assembled from fractional UTXOs can
	// overcontribute by almost the full reserve before it completes,
	// approaching double the reserve. Halving the fractional total
	// accounts for that slack. This remains an approximation, as a worst
	// case coin selection cannot be calculated efficiently.
	return numWholeUtxos +
		uint64(totalFractionalAmount/reservePerChannel)/2
}
