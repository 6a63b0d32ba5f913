package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/nflverse/nflassets/internal/domain/asset"
	"github.com/nflverse/nflassets/internal/domain/team"
)

// teamLogoURLs carries the curated Wikipedia logo art per franchise.
// Thumbnail widths vary because each file's source resolution differs.
var teamLogoURLs = map[string]string{
	"ARI": "https://upload.wikimedia.org/wikipedia/en/thumb/7/72/Arizona_Cardinals_logo.svg/179px-Arizona_Cardinals_logo.svg.png",
	"ATL": "https://upload.wikimedia.org/wikipedia/en/thumb/c/c5/Atlanta_Falcons_logo.svg/192px-Atlanta_Falcons_logo.svg.png",
	"BAL": "https://upload.wikimedia.org/wikipedia/en/thumb/1/16/Baltimore_Ravens_logo.svg/193px-Baltimore_Ravens_logo.svg.png",
	"BUF": "https://upload.wikimedia.org/wikipedia/en/thumb/7/77/Buffalo_Bills_logo.svg/300px-Buffalo_Bills_logo.svg.png",
	"CAR": "https://upload.wikimedia.org/wikipedia/en/thumb/1/1c/Carolina_Panthers_logo.svg/300px-Carolina_Panthers_logo.svg.png",
	"CHI": "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5c/Chicago_Bears_logo.svg/200px-Chicago_Bears_logo.svg.png",
	"CIN": "https://upload.wikimedia.org/wikipedia/commons/thumb/8/81/Cincinnati_Bengals_logo.svg/300px-Cincinnati_Bengals_logo.svg.png",
	"CLE": "https://upload.wikimedia.org/wikipedia/en/thumb/d/d9/Cleveland_Browns_logo.svg/300px-Cleveland_Browns_logo.svg.png",
	"DAL": "https://upload.wikimedia.org/wikipedia/commons/thumb/1/15/Dallas_Cowboys.svg/192px-Dallas_Cowboys.svg.png",
	"DEN": "https://upload.wikimedia.org/wikipedia/en/thumb/4/44/Denver_Broncos_logo.svg/300px-Denver_Broncos_logo.svg.png",
	"DET": "https://upload.wikimedia.org/wikipedia/en/thumb/7/71/Detroit_Lions_logo.svg/300px-Detroit_Lions_logo.svg.png",
	"GB":  "https://upload.wikimedia.org/wikipedia/commons/thumb/5/50/Green_Bay_Packers_logo.svg/300px-Green_Bay_Packers_logo.svg.png",
	"HOU": "https://upload.wikimedia.org/wikipedia/en/thumb/2/28/Houston_Texans_logo.svg/300px-Houston_Texans_logo.svg.png",
	"IND": "https://upload.wikimedia.org/wikipedia/commons/thumb/0/00/Indianapolis_Colts_logo.svg/300px-Indianapolis_Colts_logo.svg.png",
	"JAC": "https://upload.wikimedia.org/wikipedia/en/thumb/7/74/Jacksonville_Jaguars_logo.svg/200px-Jacksonville_Jaguars_logo.svg.png",
	"KC":  "https://upload.wikimedia.org/wikipedia/en/thumb/e/e1/Kansas_City_Chiefs_logo.svg/300px-Kansas_City_Chiefs_logo.svg.png",
	"LAC": "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a6/Los_Angeles_Chargers_logo.svg/200px-Los_Angeles_Chargers_logo.svg.png",
	"LAR": "https://upload.wikimedia.org/wikipedia/en/thumb/8/8a/Los_Angeles_Rams_logo.svg/300px-Los_Angeles_Rams_logo.svg.png",
	"LV":  "https://upload.wikimedia.org/wikipedia/en/thumb/4/48/Las_Vegas_Raiders_logo.svg/200px-Las_Vegas_Raiders_logo.svg.png",
	"MIA": "https://upload.wikimedia.org/wikipedia/en/thumb/3/37/Miami_Dolphins_logo.svg/300px-Miami_Dolphins_logo.svg.png",
	"MIN": "https://upload.wikimedia.org/wikipedia/en/thumb/4/48/Minnesota_Vikings_logo.svg/300px-Minnesota_Vikings_logo.svg.png",
	"NE":  "https://upload.wikimedia.org/wikipedia/en/thumb/b/b9/New_England_Patriots_logo.svg/300px-New_England_Patriots_logo.svg.png",
	"NO":  "https://upload.wikimedia.org/wikipedia/commons/thumb/5/50/New_Orleans_Saints_logo.svg/200px-New_Orleans_Saints_logo.svg.png",
	"NYG": "https://upload.wikimedia.org/wikipedia/commons/thumb/6/60/New_York_Giants_logo.svg/200px-New_York_Giants_logo.svg.png",
	"NYJ": "https://upload.wikimedia.org/wikipedia/en/thumb/6/6b/New_York_Jets_logo.svg/300px-New_York_Jets_logo.svg.png",
	"PHI": "https://upload.wikimedia.org/wikipedia/en/thumb/8/8e/Philadelphia_Eagles_logo.svg/300px-Philadelphia_Eagles_logo.svg.png",
	"PIT": "https://upload.wikimedia.org/wikipedia/commons/thumb/d/de/Pittsburgh_Steelers_logo.svg/300px-Pittsburgh_Steelers_logo.svg.png",
	"SEA": "https://upload.wikimedia.org/wikipedia/en/thumb/8/8e/Seattle_Seahawks_logo.svg/300px-Seattle_Seahawks_logo.svg.png",
	"SF":  "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3a/San_Francisco_49ers_logo.svg/300px-San_Francisco_49ers_logo.svg.png",
	"TB":  "https://upload.wikimedia.org/wikipedia/en/thumb/a/a2/Tampa_Bay_Buccaneers_logo.svg/300px-Tampa_Bay_Buccaneers_logo.svg.png",
	"TEN": "https://upload.wikimedia.org/wikipedia/en/thumb/c/c1/Tennessee_Titans_logo.svg/300px-Tennessee_Titans_logo.svg.png",
	"WAS": "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0c/Washington_Commanders_logo.svg/200px-Washington_Commanders_logo.svg.png",
}

var leagueLogoURLs = map[string]string{
	team.LeagueAFC: "https://upload.wikimedia.org/wikipedia/en/thumb/7/7b/American_Football_Conference_logo.svg/200px-American_Football_Conference_logo.svg.png",
	team.LeagueNFC: "https://upload.wikimedia.org/wikipedia/en/thumb/5/5e/National_Football_Conference_logo.svg/200px-National_Football_Conference_logo.svg.png",
	team.LeagueNFL: "https://upload.wikimedia.org/wikipedia/en/thumb/a/a2/National_Football_League_logo.svg/200px-National_Football_League_logo.svg.png",
}

// teamWordmarkURLs are the 300px wordmark renditions. Teams missing here
// fall back to the logo table.
var teamWordmarkURLs = map[string]string{
	"ARI": "https://upload.wikimedia.org/wikipedia/en/thumb/7/72/Arizona_Cardinals_logo.svg/300px-Arizona_Cardinals_logo.svg.png",
	"ATL": "https://upload.wikimedia.org/wikipedia/en/thumb/c/c5/Atlanta_Falcons_logo.svg/300px-Atlanta_Falcons_logo.svg.png",
	"BAL": "https://upload.wikimedia.org/wikipedia/en/thumb/1/16/Baltimore_Ravens_logo.svg/300px-Baltimore_Ravens_logo.svg.png",
	"BUF": "https://upload.wikimedia.org/wikipedia/en/thumb/7/77/Buffalo_Bills_logo.svg/300px-Buffalo_Bills_logo.svg.png",
	"CAR": "https://upload.wikimedia.org/wikipedia/en/thumb/1/1c/Carolina_Panthers_logo.svg/300px-Carolina_Panthers_logo.svg.png",
	"CHI": "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5c/Chicago_Bears_logo.svg/300px-Chicago_Bears_logo.svg.png",
	"CIN": "https://upload.wikimedia.org/wikipedia/commons/thumb/8/81/Cincinnati_Bengals_logo.svg/300px-Cincinnati_Bengals_logo.svg.png",
	"CLE": "https://upload.wikimedia.org/wikipedia/en/thumb/d/d9/Cleveland_Browns_logo.svg/300px-Cleveland_Browns_logo.svg.png",
	"DAL": "https://upload.wikimedia.org/wikipedia/commons/thumb/1/15/Dallas_Cowboys.svg/300px-Dallas_Cowboys.svg.png",
	"DEN": "https://upload.wikimedia.org/wikipedia/en/thumb/4/44/Denver_Broncos_logo.svg/300px-Denver_Broncos_logo.svg.png",
	"DET": "https://upload.wikimedia.org/wikipedia/en/thumb/7/71/Detroit_Lions_logo.svg/300px-Detroit_Lions_logo.svg.png",
	"GB":  "https://upload.wikimedia.org/wikipedia/commons/thumb/5/50/Green_Bay_Packers_logo.svg/300px-Green_Bay_Packers_logo.svg.png",
	"HOU": "https://upload.wikimedia.org/wikipedia/en/thumb/2/28/Houston_Texans_logo.svg/300px-Houston_Texans_logo.svg.png",
	"IND": "https://upload.wikimedia.org/wikipedia/commons/thumb/0/00/Indianapolis_Colts_logo.svg/300px-Indianapolis_Colts_logo.svg.png",
	"JAC": "https://upload.wikimedia.org/wikipedia/en/thumb/7/74/Jacksonville_Jaguars_logo.svg/300px-Jacksonville_Jaguars_logo.svg.png",
	"KC":  "https://upload.wikimedia.org/wikipedia/en/thumb/e/e1/Kansas_City_Chiefs_logo.svg/300px-Kansas_City_Chiefs_logo.svg.png",
	"LAC": "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a6/Los_Angeles_Chargers_logo.svg/300px-Los_Angeles_Chargers_logo.svg.png",
	"LAR": "https://upload.wikimedia.org/wikipedia/en/thumb/8/8a/Los_Angeles_Rams_logo.svg/300px-Los_Angeles_Rams_logo.svg.png",
	"LV":  "https://upload.wikimedia.org/wikipedia/en/thumb/4/48/Las_Vegas_Raiders_logo.svg/300px-Las_Vegas_Raiders_logo.svg.png",
	"MIA": "https://upload.wikimedia.org/wikipedia/en/thumb/3/37/Miami_Dolphins_logo.svg/300px-Miami_Dolphins_logo.svg.png",
	"MIN": "https://upload.wikimedia.org/wikipedia/en/thumb/4/48/Minnesota_Vikings_logo.svg/300px-Minnesota_Vikings_logo.svg.png",
	"NE":  "https://upload.wikimedia.org/wikipedia/en/thumb/b/b9/New_England_Patriots_logo.svg/300px-New_England_Patriots_logo.svg.png",
	"NO":  "https://upload.wikimedia.org/wikipedia/commons/thumb/5/50/New_Orleans_Saints_logo.svg/300px-New_Orleans_Saints_logo.svg.png",
	"NYG": "https://upload.wikimedia.org/wikipedia/commons/thumb/6/60/New_York_Giants_logo.svg/300px-New_York_Giants_logo.svg.png",
	"NYJ": "https://upload.wikimedia.org/wikipedia/en/thumb/6/6b/New_York_Jets_logo.svg/300px-New_York_Jets_logo.svg.png",
	"PHI": "https://upload.wikimedia.org/wikipedia/en/thumb/8/8e/Philadelphia_Eagles_logo.svg/300px-Philadelphia_Eagles_logo.svg.png",
	"PIT": "https://upload.wikimedia.org/wikipedia/commons/thumb/d/de/Pittsburgh_Steelers_logo.svg/300px-Pittsburgh_Steelers_logo.svg.png",
	"SEA": "https://upload.wikimedia.org/wikipedia/en/thumb/8/8e/Seattle_Seahawks_logo.svg/300px-Seattle_Seahawks_logo.svg.png",
	"SF":  "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3a/San_Francisco_49ers_logo.svg/300px-San_Francisco_49ers_logo.svg.png",
	"TB":  "https://upload.wikimedia.org/wikipedia/en/thumb/a/a2/Tampa_Bay_Buccaneers_logo.svg/300px-Tampa_Bay_Buccaneers_logo.svg.png",
	"TEN": "https://upload.wikimedia.org/wikipedia/en/thumb/c/c1/Tennessee_Titans_logo.svg/300px-Tennessee_Titans_logo.svg.png",
	"WAS": "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0c/Washington_Commanders_logo.svg/300px-Washington_Commanders_logo.svg.png",
}

const (
	espnTeamLogoBase     = "https://a.espncdn.com/i/teamlogos/nfl/500/"
	espnHeadshotFullBase = "https://a.espncdn.com/i/headshots/nfl/players/full/"
	espnHeadshotSmall    = "https://a.espncdn.com/i/headshots/nfl/players/small/"
)

var urlPattern = regexp.MustCompile(`(?i)^https?://(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|localhost|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})(?::\d+)?(?:/?|[/?]\S+)$`)

// URLManager produces candidate source URLs for every asset key, ordered
// most preferred first. Per-team and per-player overrides beat the
// built-in tables.
type URLManager struct {
	directory *team.Directory

	mu                sync.RWMutex
	logoOverrides     map[string]string
	wordmarkOverrides map[string]string
	headshotOverrides map[string]string
}

func NewURLManager(directory *team.Directory) *URLManager {
	return &URLManager{
		directory:         directory,
		logoOverrides:     make(map[string]string),
		wordmarkOverrides: make(map[string]string),
		headshotOverrides: make(map[string]string),
	}
}

// Logo returns the key and candidate URLs for a team or league logo. The
// ESPN CDN rendition trails the curated art as a fallback mirror.
func (m *URLManager) Logo(token string) (asset.Key, []string, error) {
	slug, isLeague, err := m.resolveSlug(token)
	if err != nil {
		return asset.Key{}, nil, err
	}
	key, err := asset.NewKey(asset.KindLogo, slug)
	if err != nil {
		return asset.Key{}, nil, err
	}

	if isLeague {
		return key, []string{leagueLogoURLs[slug]}, nil
	}

	candidates := make([]string, 0, 3)
	if override, ok := m.logoOverride(slug); ok {
		candidates = append(candidates, override)
	}
	candidates = append(candidates,
		teamLogoURLs[slug],
		espnTeamLogoBase+strings.ToLower(slug)+".png",
	)
	return key, candidates, nil
}

// Wordmark returns the key and candidate URLs for a team wordmark, falling
// back to the logo art when no wordmark rendition exists.
func (m *URLManager) Wordmark(token string) (asset.Key, []string, error) {
	slug, isLeague, err := m.resolveSlug(token)
	if err != nil {
		return asset.Key{}, nil, err
	}
	key, err := asset.NewKey(asset.KindWordmark, slug)
	if err != nil {
		return asset.Key{}, nil, err
	}

	if isLeague {
		return key, []string{leagueLogoURLs[slug]}, nil
	}

	candidates := make([]string, 0, 3)
	if override, ok := m.wordmarkOverride(slug); ok {
		candidates = append(candidates, override)
	}
	if url, ok := teamWordmarkURLs[slug]; ok {
		candidates = append(candidates, url)
	}
	candidates = append(candidates, teamLogoURLs[slug])
	return key, candidates, nil
}

// Headshot returns the key and candidate URLs for a player headshot. The
// slug is the ESPN player ID; the small rendition backs up the full one.
func (m *URLManager) Headshot(espnID string) (asset.Key, []string, error) {
	espnID = strings.TrimSpace(espnID)
	if espnID == "" {
		return asset.Key{}, nil, fmt.Errorf("%w: espn player id is required", ErrInvalidInput)
	}
	key, err := asset.NewKey(asset.KindHeadshot, espnID)
	if err != nil {
		return asset.Key{}, nil, err
	}

	candidates := make([]string, 0, 3)
	if override, ok := m.headshotOverride(espnID); ok {
		candidates = append(candidates, override)
	}
	candidates = append(candidates,
		espnHeadshotFullBase+espnID+".png",
		espnHeadshotSmall+espnID+".png",
	)
	return key, candidates, nil
}

func (m *URLManager) SetLogoOverride(token, url string) error {
	return m.setOverride(token, url, func(slug string) {
		m.logoOverrides[slug] = url
	})
}

func (m *URLManager) SetWordmarkOverride(token, url string) error {
	return m.setOverride(token, url, func(slug string) {
		m.wordmarkOverrides[slug] = url
	})
}

// SetHeadshotOverride pins a custom headshot URL for one ESPN player ID.
func (m *URLManager) SetHeadshotOverride(espnID, url string) error {
	if !m.ValidateURL(url) {
		return fmt.Errorf("%w: malformed override url %q", ErrInvalidInput, url)
	}
	espnID = strings.TrimSpace(espnID)
	if espnID == "" {
		return fmt.Errorf("%w: espn player id is required", ErrInvalidInput)
	}
	if _, err := asset.NewKey(asset.KindHeadshot, espnID); err != nil {
		return err
	}

	m.mu.Lock()
	m.headshotOverrides[espnID] = url
	m.mu.Unlock()
	return nil
}

func (m *URLManager) ClearOverrides() {
	m.mu.Lock()
	m.logoOverrides = make(map[string]string)
	m.wordmarkOverrides = make(map[string]string)
	m.headshotOverrides = make(map[string]string)
	m.mu.Unlock()
}

// ValidateURL reports whether a URL is well formed enough to fetch.
func (m *URLManager) ValidateURL(url string) bool {
	return urlPattern.MatchString(url)
}

// TrackedURLs lists every built-in logo and wordmark URL keyed by
// kind/slug, in sorted key order. The URL sweep walks this set.
func (m *URLManager) TrackedURLs() []TrackedURL {
	out := make([]TrackedURL, 0, len(teamLogoURLs)+len(leagueLogoURLs)+len(teamWordmarkURLs))
	for slug, url := range teamLogoURLs {
		out = append(out, TrackedURL{Key: asset.Key{Kind: asset.KindLogo, Slug: slug}, URL: url})
	}
	for slug, url := range leagueLogoURLs {
		out = append(out, TrackedURL{Key: asset.Key{Kind: asset.KindLogo, Slug: slug}, URL: url})
	}
	for slug, url := range teamWordmarkURLs {
		out = append(out, TrackedURL{Key: asset.Key{Kind: asset.KindWordmark, Slug: slug}, URL: url})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Kind != out[j].Key.Kind {
			return out[i].Key.Kind < out[j].Key.Kind
		}
		return out[i].Key.Slug < out[j].Key.Slug
	})
	return out
}

type TrackedURL struct {
	Key asset.Key
	URL string
}

func (m *URLManager) setOverride(token, url string, apply func(slug string)) error {
	if !m.ValidateURL(url) {
		return fmt.Errorf("%w: malformed override url %q", ErrInvalidInput, url)
	}
	slug, isLeague, err := m.resolveSlug(token)
	if err != nil {
		return err
	}
	if isLeague {
		return fmt.Errorf("%w: league marks cannot be overridden", ErrInvalidInput)
	}

	m.mu.Lock()
	apply(slug)
	m.mu.Unlock()
	return nil
}

func (m *URLManager) logoOverride(slug string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, ok := m.logoOverrides[slug]
	return url, ok
}

func (m *URLManager) wordmarkOverride(slug string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, ok := m.wordmarkOverrides[slug]
	return url, ok
}

func (m *URLManager) headshotOverride(espnID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	url, ok := m.headshotOverrides[espnID]
	return url, ok
}

func (m *URLManager) resolveSlug(token string) (slug string, isLeague bool, err error) {
	normalized := team.NormalizeToken(token)
	if team.IsLeagueMark(normalized) {
		return normalized, true, nil
	}
	if m.directory != nil {
		canonical, normErr := m.directory.Normalize(normalized)
		if normErr != nil {
			return "", false, fmt.Errorf("%w: %s", ErrNotFound, normErr)
		}
		return canonical, false, nil
	}
	if _, ok := teamLogoURLs[normalized]; !ok {
		return "", false, fmt.Errorf("%w: unknown team %q", ErrNotFound, token)
	}
	return normalized, false, nil
}
