package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/auricle-labs/seqtap/internal/domain"
)

// PortProfile holds the parsed, normalized search criteria derived from a
// free-form port designation. A profile is constructed fresh per search and
// never mutated afterwards.
type PortProfile struct {
	// Err is non-nil when the designation could not be parsed. An error
	// profile never matches any port.
	Err error

	// Caps are the capabilities the searched port must offer.
	Caps domain.PortCaps

	// HasColon is set when the designation had the <client>:<port> shape.
	HasColon bool

	// FirstName is the normalized part before the colon, or the whole
	// normalized designation when there was no colon.
	FirstName string

	// SecondName is the normalized part after the colon, empty otherwise.
	SecondName string

	// FirstInt is FirstName read as an integer, NullID when not purely numeric.
	FirstInt int

	// SecondInt is SecondName read as an integer, NullID when not purely numeric.
	SecondInt int
}

// NormalizedName removes all blanks from an identifier and replaces every
// byte outside [A-Za-z0-9] with an underscore. Multi-byte characters expand
// to one underscore per byte; an ugly result is better than no result at all.
// Normalization is idempotent.
func NormalizedName(identifier string) string {
	var b strings.Builder
	b.Grow(len(identifier))
	for i := 0; i < len(identifier); i++ {
		c := identifier[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r':
			// blanks are dropped entirely
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// nameToInt returns the identifier as an integral number, or NullID when the
// identifier is not purely numeric (surrounding blanks excepted).
func nameToInt(identifier string) int {
	n, err := strconv.Atoi(strings.TrimSpace(identifier))
	if err != nil {
		return domain.NullID
	}
	return n
}

// ToProfile parses a port designation into a search profile for ports
// offering the given capabilities. Valid shapes are "<client>:<port>" with
// both segments non-empty, and a bare "<port>" with no colon at all. Any
// other shape yields a profile carrying an error.
func ToProfile(caps domain.PortCaps, designation string) PortProfile {
	result := PortProfile{
		Caps:      caps,
		FirstInt:  domain.NullID,
		SecondInt: domain.NullID,
	}

	if designation == "" {
		result.Err = fmt.Errorf("port designation is empty")
		return result
	}

	parts := strings.Split(designation, ":")
	switch {
	case len(parts) == 1:
		result.FirstName = NormalizedName(parts[0])
		result.FirstInt = nameToInt(result.FirstName)
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		result.HasColon = true
		result.FirstName = NormalizedName(parts[0])
		result.SecondName = NormalizedName(parts[1])
		result.FirstInt = nameToInt(result.FirstName)
		result.SecondInt = nameToInt(result.SecondName)
	default:
		result.Err = fmt.Errorf("invalid port designation %q", designation)
	}
	return result
}
