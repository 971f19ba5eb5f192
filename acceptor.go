package anchorreserve

// ChannelAcceptor is the interface through which channel open attempts
// consult the reserve.
type ChannelAcceptor interface {
	// Accept returns true if one more anchor channel may be opened.
	Accept() bool
}

// AcceptorConfig bundles the collaborators an Acceptor consults for each
// decision.
type AcceptorConfig struct {
	// Context holds the assumptions the reserve calculation is based on.
	Context Context

	// FetchUtxos lists the confirmed wallet outputs that are available
	// as anchor channel reserve. Outputs already reserved for pending
	// transactions should not be returned.
	FetchUtxos func() ([]Utxo, error)

	// Channels enumerates the channels known to the channel manager.
	Channels ChannelSource

	// Monitors enumerates the chain watchers of existing channels.
	Monitors MonitorSource
}

// Acceptor gates channel opens on the anchor channel reserve. It is
// consulted both before opening an outbound anchor channel and when
// deciding on an inbound open request.
type Acceptor struct {
	cfg AcceptorConfig
}

// NewAcceptor returns an Acceptor evaluating the given configuration.
func NewAcceptor(cfg AcceptorConfig) *Acceptor {
	return &Acceptor{
		cfg: cfg,
	}
}

// Accept returns true if one more anchor channel can be opened without
// leaving existing channels short of reserve. If the wallet outputs cannot
// be fetched, the acceptor fails closed.
//
// NOTE: Part of the ChannelAcceptor interface.
func (a *Acceptor) Accept() bool {
	utxos, err := a.cfg.FetchUtxos()
	if err != nil {
		log.Errorf("Unable to fetch utxos for reserve admission "+
			"check, rejecting channel: %v", err)
		return false
	}

	return CanSupportAdditionalChannel(
		a.cfg.Context, utxos, a.cfg.Channels, a.cfg.Monitors,
	)
}

// A compile-time check to ensure Acceptor implements the ChannelAcceptor
// interface.
var _ ChannelAcceptor = (*Acceptor)(nil)
