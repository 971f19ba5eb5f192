package anchorreserve

// ChannelType is an enum-like type that describes the commitment flavor
// negotiated for a channel. It is a bit vector so additional flavors can be
// combined where that makes sense.
type ChannelType uint64

const (
	// AnchorOutputsBit indicates that the channel commits to a pair of
	// anchor outputs for fee bumping the commitment transaction.
	AnchorOutputsBit ChannelType = 1 << 0

	// ZeroHtlcTxFeeBit indicates that second level HTLC transactions are
	// signed with a zero fee, their fees being attached exogenously at
	// claim time.
	ZeroHtlcTxFeeBit ChannelType = 1 << 1

	// SimpleTaprootBit indicates that the channel uses a musig2 taproot
	// funding output.
	SimpleTaprootBit ChannelType = 1 << 2
)

// HasAnchors returns true if the channel commits to anchor outputs.
func (c ChannelType) HasAnchors() bool {
	return c&AnchorOutputsBit == AnchorOutputsBit
}

// ZeroHtlcTxFee returns true if the channel signs its second level HTLC
// transactions with a zero fee.
func (c ChannelType) ZeroHtlcTxFee() bool {
	return c&ZeroHtlcTxFeeBit == ZeroHtlcTxFeeBit
}

// IsTaproot returns true if the channel uses a taproot funding output.
func (c ChannelType) IsTaproot() bool {
	return c&SimpleTaprootBit == SimpleTaprootBit
}

// SupportsAnchorsZeroFeeHtlcTx returns true if the channel has anchor
// outputs with zero fee second level HTLC transactions, the commitment
// flavor the anchor channel reserve provisions for.
func (c ChannelType) SupportsAnchorsZeroFeeHtlcTx() bool {
	return c.HasAnchors() && c.ZeroHtlcTxFee()
}
