package anchorreserve

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightninglabs/anchorreserve/lnutils"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// Balance is a claimable on-chain balance reported by a channel monitor.
// The census only inspects the presence of balances, their composition is
// left to the monitor backend.
type Balance struct {
	// Amount is the claimable amount in satoshis.
	Amount btcutil.Amount
}

// ChannelMonitor is the read-only view of a single channel's chain watcher
// that the census requires.
type ChannelMonitor interface {
	// ChannelType returns the commitment flavor negotiated for the
	// monitored channel.
	ChannelType() ChannelType

	// ClaimableBalances returns the balances the monitor can still claim
	// on chain. An empty result means the channel is fully resolved.
	ClaimableBalances() []Balance
}

// MonitorEntry identifies a single registered channel monitor.
type MonitorEntry struct {
	// FundingOutpoint is the outpoint of the channel's funding output.
	FundingOutpoint wire.OutPoint

	// ChannelID is the identifier of the monitored channel.
	ChannelID ChannelID
}

// MonitorSource enumerates the chain watchers of all channels that are
// either open or still being resolved on chain.
type MonitorSource interface {
	// ListMonitors returns an entry for each registered channel monitor.
	ListMonitors() []MonitorEntry

	// GetMonitor returns the monitor watching the channel with the given
	// funding outpoint, or an error if no such monitor exists.
	GetMonitor(fundingOutpoint wire.OutPoint) (ChannelMonitor, error)
}

// ChannelInfo describes a single channel known to the channel manager.
type ChannelInfo struct {
	// ChannelID is the identifier of the channel.
	ChannelID ChannelID

	// ChannelType is the commitment flavor negotiated with the remote
	// peer. It is unset while the negotiation is still in flight.
	ChannelType fn.Option[ChannelType]
}

// ChannelSource enumerates the channels known to the channel manager,
// including channels whose negotiation hasn't completed yet.
type ChannelSource interface {
	// ListChannels returns the currently known channels.
	ListChannels() []ChannelInfo
}

// NumAnchorChannels counts the channels that currently lay claim to a part
// of the anchor channel reserve: monitored channels of an anchor commitment
// flavor that still report claimable balances, which includes channels
// being resolved on chain, plus channels still in negotiation that are
// assumed to become anchor channels.
//
// The count is a point in time snapshot. If the monitor and manager views
// disagree momentarily, a channel can be picked up through both, so callers
// must treat the result as a conservative overcount rather than an exact
// tally.
func NumAnchorChannels(channels ChannelSource, monitors MonitorSource) int {
	entries := monitors.ListMonitors()
	log.Tracef("Counting anchor channels among monitors: %v",
		lnutils.SpewLogClosure(entries))

	// Monitors are deduplicated by channel ID.
	anchorChannels := make(map[ChannelID]struct{})
	for _, entry := range entries {
		monitor, err := monitors.GetMonitor(entry.FundingOutpoint)
		if err != nil {
			// The monitor vanished between enumeration and
			// lookup, so it no longer lays claim to any reserve.
			log.Debugf("Skipping monitor for channel %v: %v",
				entry.ChannelID, err)
			continue
		}

		if !monitor.ChannelType().SupportsAnchorsZeroFeeHtlcTx() {
			continue
		}
		if len(monitor.ClaimableBalances()) == 0 {
			continue
		}

		anchorChannels[entry.ChannelID] = struct{}{}
	}

	// Channels without a finalized channel type are still negotiating
	// and counted as anchor channels ahead of time.
	numNegotiating := 0
	for _, channel := range channels.ListChannels() {
		if channel.ChannelType.IsNone() {
			numNegotiating++
		}
	}

	return len(anchorChannels) + numNegotiating
}
