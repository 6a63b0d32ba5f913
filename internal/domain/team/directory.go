package team

import (
	"fmt"
	"sort"
	"strings"
)

// League-level pseudo abbreviations. They carry logo art but are not
// franchises, so listings and resolution skip them unless asked.
const (
	LeagueAFC = "AFC"
	LeagueNFC = "NFC"
	LeagueNFL = "NFL"
)

// aliases maps retired or alternate abbreviations to the franchise's
// current canonical abbreviation. Covers relocations (STL, SD, OAK) and
// legacy stat-feed spellings (BLT, CLV, HST, ...).
var aliases = map[string]string{
	"ARZ": "ARI",
	"BLT": "BAL",
	"CLV": "CLE",
	"GNB": "GB",
	"HST": "HOU",
	"JAX": "JAC",
	"KAN": "KC",
	"LA":  "LAR",
	"LVR": "LV",
	"NOR": "NO",
	"OAK": "LV",
	"SD":  "LAC",
	"SDG": "LAC",
	"SFO": "SF",
	"STL": "LAR",
	"WSH": "WAS",
}

var franchises = []Team{
	{Abbreviation: "ARI", Name: "Arizona Cardinals", Nickname: "Cardinals", Conference: ConferenceNFC, Division: "NFC West"},
	{Abbreviation: "ATL", Name: "Atlanta Falcons", Nickname: "Falcons", Conference: ConferenceNFC, Division: "NFC South"},
	{Abbreviation: "BAL", Name: "Baltimore Ravens", Nickname: "Ravens", Conference: ConferenceAFC, Division: "AFC North"},
	{Abbreviation: "BUF", Name: "Buffalo Bills", Nickname: "Bills", Conference: ConferenceAFC, Division: "AFC East"},
	{Abbreviation: "CAR", Name: "Carolina Panthers", Nickname: "Panthers", Conference: ConferenceNFC, Division: "NFC South"},
	{Abbreviation: "CHI", Name: "Chicago Bears", Nickname: "Bears", Conference: ConferenceNFC, Division: "NFC North"},
	{Abbreviation: "CIN", Name: "Cincinnati Bengals", Nickname: "Bengals", Conference: ConferenceAFC, Division: "AFC North"},
	{Abbreviation: "CLE", Name: "Cleveland Browns", Nickname: "Browns", Conference: ConferenceAFC, Division: "AFC North"},
	{Abbreviation: "DAL", Name: "Dallas Cowboys", Nickname: "Cowboys", Conference: ConferenceNFC, Division: "NFC East"},
	{Abbreviation: "DEN", Name: "Denver Broncos", Nickname: "Broncos", Conference: ConferenceAFC, Division: "AFC West"},
	{Abbreviation: "DET", Name: "Detroit Lions", Nickname: "Lions", Conference: ConferenceNFC, Division: "NFC North"},
	{Abbreviation: "GB", Name: "Green Bay Packers", Nickname: "Packers", Conference: ConferenceNFC, Division: "NFC North"},
	{Abbreviation: "HOU", Name: "Houston Texans", Nickname: "Texans", Conference: ConferenceAFC, Division: "AFC South"},
	{Abbreviation: "IND", Name: "Indianapolis Colts", Nickname: "Colts", Conference: ConferenceAFC, Division: "AFC South"},
	{Abbreviation: "JAC", Name: "Jacksonville Jaguars", Nickname: "Jaguars", Conference: ConferenceAFC, Division: "AFC South"},
	{Abbreviation: "KC", Name: "Kansas City Chiefs", Nickname: "Chiefs", Conference: ConferenceAFC, Division: "AFC West"},
	{Abbreviation: "LAC", Name: "Los Angeles Chargers", Nickname: "Chargers", Conference: ConferenceAFC, Division: "AFC West"},
	{Abbreviation: "LAR", Name: "Los Angeles Rams", Nickname: "Rams", Conference: ConferenceNFC, Division: "NFC West"},
	{Abbreviation: "LV", Name: "Las Vegas Raiders", Nickname: "Raiders", Conference: ConferenceAFC, Division: "AFC West"},
	{Abbreviation: "MIA", Name: "Miami Dolphins", Nickname: "Dolphins", Conference: ConferenceAFC, Division: "AFC East"},
	{Abbreviation: "MIN", Name: "Minnesota Vikings", Nickname: "Vikings", Conference: ConferenceNFC, Division: "NFC North"},
	{Abbreviation: "NE", Name: "New England Patriots", Nickname: "Patriots", Conference: ConferenceAFC, Division: "AFC East"},
	{Abbreviation: "NO", Name: "New Orleans Saints", Nickname: "Saints", Conference: ConferenceNFC, Division: "NFC South"},
	{Abbreviation: "NYG", Name: "New York Giants", Nickname: "Giants", Conference: ConferenceNFC, Division: "NFC East"},
	{Abbreviation: "NYJ", Name: "New York Jets", Nickname: "Jets", Conference: ConferenceAFC, Division: "AFC East"},
	{Abbreviation: "PHI", Name: "Philadelphia Eagles", Nickname: "Eagles", Conference: ConferenceNFC, Division: "NFC East"},
	{Abbreviation: "PIT", Name: "Pittsburgh Steelers", Nickname: "Steelers", Conference: ConferenceAFC, Division: "AFC North"},
	{Abbreviation: "SEA", Name: "Seattle Seahawks", Nickname: "Seahawks", Conference: ConferenceNFC, Division: "NFC West"},
	{Abbreviation: "SF", Name: "San Francisco 49ers", Nickname: "49ers", Conference: ConferenceNFC, Division: "NFC West"},
	{Abbreviation: "TB", Name: "Tampa Bay Buccaneers", Nickname: "Buccaneers", Conference: ConferenceNFC, Division: "NFC South"},
	{Abbreviation: "TEN", Name: "Tennessee Titans", Nickname: "Titans", Conference: ConferenceAFC, Division: "AFC South"},
	{Abbreviation: "WAS", Name: "Washington Commanders", Nickname: "Commanders", Conference: ConferenceNFC, Division: "NFC East"},
}

// Directory is the closed registry of current franchises and their
// historical aliases. Immutable after construction; safe for concurrent use.
type Directory struct {
	byAbbr  map[string]Team
	aliases map[string]string
	sorted  []string
}

// NewDirectory builds the registry from the bundled franchise tables.
func NewDirectory() *Directory {
	d := &Directory{
		byAbbr:  make(map[string]Team, len(franchises)),
		aliases: make(map[string]string, len(aliases)),
		sorted:  make([]string, 0, len(franchises)),
	}
	for _, t := range franchises {
		d.byAbbr[t.Abbreviation] = t
		d.sorted = append(d.sorted, t.Abbreviation)
	}
	sort.Strings(d.sorted)
	for alias, canonical := range aliases {
		d.aliases[alias] = canonical
	}
	return d
}

// NormalizeToken uppercases and strips surrounding space from a caller token.
func NormalizeToken(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// Resolve maps a canonical abbreviation or a historical alias to its
// current franchise record.
func (d *Directory) Resolve(token string) (Team, bool) {
	abbr := NormalizeToken(token)
	if t, ok := d.byAbbr[abbr]; ok {
		return t, true
	}
	if canonical, ok := d.aliases[abbr]; ok {
		return d.byAbbr[canonical], true
	}
	return Team{}, false
}

// Normalize returns the canonical abbreviation for a token, or an error
// when the token is not a known team.
func (d *Directory) Normalize(token string) (string, error) {
	if t, ok := d.Resolve(token); ok {
		return t.Abbreviation, nil
	}
	return "", fmt.Errorf("invalid team abbreviation: %s", NormalizeToken(token))
}

// Get returns the franchise for an exact canonical abbreviation.
func (d *Directory) Get(abbr string) (Team, bool) {
	t, ok := d.byAbbr[NormalizeToken(abbr)]
	return t, ok
}

// List returns all canonical abbreviations in sorted order.
func (d *Directory) List() []string {
	out := make([]string, len(d.sorted))
	copy(out, d.sorted)
	return out
}

// ConferenceTeams returns the sorted abbreviations of one conference.
func (d *Directory) ConferenceTeams(conf Conference) ([]string, error) {
	if conf != ConferenceAFC && conf != ConferenceNFC {
		return nil, fmt.Errorf("conference must be %s or %s", ConferenceAFC, ConferenceNFC)
	}

	out := make([]string, 0, len(d.sorted)/2)
	for _, abbr := range d.sorted {
		if d.byAbbr[abbr].Conference == conf {
			out = append(out, abbr)
		}
	}
	return out, nil
}

// DivisionTeams returns the sorted abbreviations of one division,
// e.g. "AFC West".
func (d *Directory) DivisionTeams(division string) []string {
	division = strings.TrimSpace(division)
	out := make([]string, 0, 4)
	for _, abbr := range d.sorted {
		if strings.EqualFold(d.byAbbr[abbr].Division, division) {
			out = append(out, abbr)
		}
	}
	return out
}

// Aliases returns a copy of the alias table, for diagnostics.
func (d *Directory) Aliases() map[string]string {
	out := make(map[string]string, len(d.aliases))
	for alias, canonical := range d.aliases {
		out[alias] = canonical
	}
	return out
}

// IsLeagueMark reports whether the token names league-level art (the two
// conference logos or the league shield) rather than a franchise.
func IsLeagueMark(token string) bool {
	switch NormalizeToken(token) {
	case LeagueAFC, LeagueNFC, LeagueNFL:
		return true
	default:
		return false
	}
}
