package anchorreserve

// CanSupportAdditionalChannel verifies whether the anchor channel reserve
// provided by utxos is sufficient to support one more anchor channel beyond
// the ones that already lay claim to it.
//
// This should be verified both before opening a new outbound anchor channel
// and before accepting an inbound one.
//
// The decision is advisory: it is evaluated against a snapshot of monitors,
// channels and wallet outputs taken without joint locking, so two
// concurrent open attempts can both pass the check. Callers that need
// exactly-once admission must serialize channel opens themselves.
func CanSupportAdditionalChannel(ctx Context, utxos []Utxo,
	channels ChannelSource, monitors MonitorSource) bool {

	numAnchorChannels := NumAnchorChannels(channels, monitors)
	supportable := SupportableChannels(ctx, utxos)

	log.Debugf("Reserve admission check: %d supportable anchor "+
		"channels, %d laying claim to the reserve", supportable,
		numAnchorChannels)

	return supportable > uint64(numAnchorChannels)
}
