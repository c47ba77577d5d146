package uid

import (
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// ChannelLog is the update history of one accumulator of a node.
type ChannelLog struct {
	Name        string
	Fingerprint domain.Fingerprint
	Entries     []fingerprint.LogEntry
}

// Explain returns the update history of every accumulator of a computed node:
// self, the four channels and full. It requires a campaign run with Options.Explain.
func (c *Campaign) Explain(id domain.NodeID) ([]ChannelLog, error) {
	if !c.opts.Explain {
		return nil, zerr.New("campaign was not run with explain enabled")
	}
	e, ok := c.entries[id]
	if !ok || e.state != stateFinalized {
		return nil, zerr.With(zerr.Wrap(domain.ErrNodeNotFound, "node was not computed"), "node", id.String())
	}
	if e.cached {
		return nil, zerr.With(zerr.New("node was loaded from the cache"), "node", id.String())
	}

	logs := make([]ChannelLog, 0, numChannels+2)
	logs = append(logs, ChannelLog{Name: "self", Fingerprint: e.record.Self, Entries: e.self.Log()})
	for ch := range numChannels {
		logs = append(logs, ChannelLog{
			Name:        ch.String(),
			Fingerprint: channelOf(&e.record, ch),
			Entries:     e.ch[ch].Log(),
		})
	}
	logs = append(logs, ChannelLog{Name: "full", Fingerprint: e.record.Full, Entries: e.full.Log()})
	return logs, nil
}
