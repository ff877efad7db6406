package app

import (
	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/ports"
)

// FindPort walks every client and port known to the sequencer service, in
// the service's native enumeration order, and returns the first port that
// match accepts. Ties are broken by enumeration order alone; there is no
// secondary ranking. It returns NullPortID when the profile carries an error
// or when the enumeration is exhausted without a match.
func FindPort(seq ports.Sequencer, requested PortProfile, match MatchFunc) (domain.PortID, error) {
	if requested.Err != nil {
		return domain.NullPortID, nil
	}

	infos, err := seq.Ports()
	if err != nil {
		return domain.NullPortID, &domain.ServiceError{Op: "enumerate ports", Err: err}
	}

	for _, p := range infos {
		if match(p.Caps, p.ID, p.ClientName, p.PortName, requested) {
			return p.ID, nil
		}
	}
	return domain.NullPortID, nil
}
