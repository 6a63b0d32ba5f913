package player

import (
	"fmt"
	"regexp"
	"strings"
)

// Scheme is an external player ID namespace. A player carries at most one
// value per scheme.
type Scheme string

const (
	// SchemeGSIS is the league-official ID, formatted like 00-0033873.
	SchemeGSIS Scheme = "gsis"
	// SchemeESPN is the media-provider ID used by the headshot CDN.
	SchemeESPN Scheme = "espn"
	// SchemeNFL is the nfl.com numeric ID.
	SchemeNFL Scheme = "nfl"
)

// AllSchemes lists schemes in auto-detection precedence: the GSIS shape is
// unambiguous, plain numerics are tried as ESPN before NFL.
var AllSchemes = []Scheme{SchemeGSIS, SchemeESPN, SchemeNFL}

var schemePatterns = map[Scheme]*regexp.Regexp{
	SchemeGSIS: regexp.MustCompile(`^\d{2}-\d{7}$`),
	SchemeESPN: regexp.MustCompile(`^\d{4,}$`),
	SchemeNFL:  regexp.MustCompile(`^\d+$`),
}

// MatchesScheme reports whether a raw token has the shape of an ID in the
// given scheme.
func MatchesScheme(scheme Scheme, token string) bool {
	pattern, ok := schemePatterns[scheme]
	if !ok {
		return false
	}
	return pattern.MatchString(strings.TrimSpace(token))
}

// ParseScheme validates a caller-supplied scheme hint.
func ParseScheme(raw string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(raw))) {
	case SchemeGSIS:
		return SchemeGSIS, nil
	case SchemeESPN:
		return SchemeESPN, nil
	case SchemeNFL:
		return SchemeNFL, nil
	default:
		return "", fmt.Errorf("unsupported id scheme: %s", raw)
	}
}

// Identity is one canonical player record assembled from the ID dataset.
type Identity struct {
	Name         string
	Team         string
	Position     string
	LatestSeason int
	IDs          map[Scheme]string
}

func (p Identity) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if len(p.IDs) == 0 {
		return fmt.Errorf("player %s has no scheme ids", p.Name)
	}
	for scheme, value := range p.IDs {
		if !MatchesScheme(scheme, value) {
			return fmt.Errorf("player %s has malformed %s id %q", p.Name, scheme, value)
		}
	}

	return nil
}

// ID returns the player's value in one scheme, if present.
func (p Identity) ID(scheme Scheme) (string, bool) {
	value, ok := p.IDs[scheme]
	return value, ok
}

// NormalizedName is the case- and punctuation-folded form used for name
// lookups and fuzzy candidate scans.
func (p Identity) NormalizedName() string {
	return NormalizeName(p.Name)
}

var nameStrip = strings.NewReplacer(".", "", "'", "", ",", "")

// NormalizeName lowercases, strips punctuation and collapses whitespace.
func NormalizeName(name string) string {
	name = nameStrip.Replace(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(strings.Fields(name), " ")
}
