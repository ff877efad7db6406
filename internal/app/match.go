package app

import "github.com/auricle-labs/seqtap/internal/domain"

// MatchFunc decides whether an enumerated port satisfies a search profile.
type MatchFunc func(caps domain.PortCaps, port domain.PortID, clientName, portName string, requested PortProfile) bool

// Match is the default MatchFunc.
//
// The actual port must offer every capability the profile requires; names
// are only consulted afterwards. A "<client>:<port>" designation matches by
// client number or normalized client name on the first segment, combined
// with port number or normalized port name on the second, so callers may
// designate a port numerically, by name, or with a mix of both. A bare
// designation matches any port with that normalized name, on any client.
func Match(caps domain.PortCaps, port domain.PortID, clientName, portName string, requested PortProfile) bool {
	if requested.Err != nil {
		return false
	}
	if !caps.Fulfills(requested.Caps) {
		return false
	}

	normalClientName := NormalizedName(clientName)
	normalPortName := NormalizedName(portName)

	if requested.HasColon {
		// Numeric comparisons are only meaningful when the segment was
		// actually numeric; NullID on both sides must not count as a match.
		if requested.FirstInt != domain.NullID && requested.FirstInt == port.Client {
			if requested.SecondInt != domain.NullID && requested.SecondInt == port.Port {
				return true
			}
			if requested.SecondName == normalPortName {
				return true
			}
		}
		if requested.FirstName == normalClientName {
			if requested.SecondName == normalPortName {
				return true
			}
			if requested.SecondInt != domain.NullID && requested.SecondInt == port.Port {
				return true
			}
		}
		return false
	}

	return requested.FirstName == normalPortName
}
