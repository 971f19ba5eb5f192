package anchorreserve

import (
	"github.com/lightninglabs/anchorreserve/chainfee"
)

const (
	// DefaultUpperBoundFeeRate is the default fee rate the reserve is
	// provisioned for, 50 sat/vb expressed in sat/kw. This corresponds to
	// the 99th percentile of the median block fee rate since 2019, so
	// prevailing fee rates have a very high likelihood of falling below
	// it.
	DefaultUpperBoundFeeRate chainfee.SatPerKWeight = 50 * 250

	// DefaultExpectedAcceptedHTLCs is the default number of accepted in
	// flight HTLCs per channel the reserve accounts for. This provides
	// ample margin above the counts observed for large routing nodes,
	// which rarely exceed single digits aggregated across all channels.
	DefaultExpectedAcceptedHTLCs uint16 = 10
)

// Context bundles the assumptions the anchor channel reserve calculation is
// based on. The zero value provisions no reserve at all, most callers want
// to start from DefaultContext and tighten individual fields.
type Context struct {
	// UpperBoundFeeRate is an upper bound fee rate estimate used to
	// calculate a reserve that is sufficient to provide fees for all
	// transactions required to unilaterally resolve a channel.
	UpperBoundFeeRate chainfee.SatPerKWeight

	// ExpectedAcceptedHTLCs is the expected number of accepted in flight
	// HTLCs per channel. Each of them is assumed to require a separate
	// second level claim at the upper bound fee rate.
	ExpectedAcceptedHTLCs uint16

	// TaprootWallet denotes whether the wallet providing the reserve
	// controls taproot P2TR outputs for its funds, or segwit P2WPKH
	// outputs otherwise.
	TaprootWallet bool
}

// DefaultContext returns the default assumptions for the reserve
// calculation: the default upper bound fee rate, the default number of
// accepted HTLCs, and a segwit wallet.
func DefaultContext() Context {
	return Context{
		UpperBoundFeeRate:     DefaultUpperBoundFeeRate,
		ExpectedAcceptedHTLCs: DefaultExpectedAcceptedHTLCs,
	}
}
