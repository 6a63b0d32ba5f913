package player

import (
	"testing"
)

func sampleIdentities() []Identity {
	return []Identity{
		{
			Name:         "Patrick Mahomes",
			Team:         "KC",
			Position:     "QB",
			LatestSeason: 2024,
			IDs:          map[Scheme]string{SchemeGSIS: "00-0033873", SchemeESPN: "3139477"},
		},
		{
			Name:         "Josh Allen",
			Team:         "BUF",
			Position:     "QB",
			LatestSeason: 2024,
			IDs:          map[Scheme]string{SchemeGSIS: "00-0034857", SchemeESPN: "3918298"},
		},
		{
			Name:         "Tom Brady",
			Team:         "TB",
			Position:     "QB",
			LatestSeason: 2022,
			IDs:          map[Scheme]string{SchemeGSIS: "00-0019596", SchemeESPN: "2330"},
		},
	}
}

func TestNewIndexBuildsLookups(t *testing.T) {
	t.Parallel()

	idx, skipped := NewIndex(sampleIdentities())
	if len(skipped) != 0 {
		t.Fatalf("expected no skipped rows, got %v", skipped)
	}
	if idx.Len() != 3 {
		t.Fatalf("expected 3 identities, got %d", idx.Len())
	}

	got, ok := idx.ByID(SchemeGSIS, "00-0033873")
	if !ok {
		t.Fatal("expected gsis lookup to hit")
	}
	if got.Name != "Patrick Mahomes" {
		t.Fatalf("expected Patrick Mahomes, got %s", got.Name)
	}

	if _, ok := idx.ByID(SchemeESPN, "999999"); ok {
		t.Fatal("expected miss for unknown espn id")
	}
}

func TestNewIndexSkipsInvalidAndDuplicateRows(t *testing.T) {
	t.Parallel()

	items := append(sampleIdentities(),
		Identity{Name: "", IDs: map[Scheme]string{SchemeESPN: "12345"}},
		Identity{Name: "Fake Mahomes", Team: "KC", IDs: map[Scheme]string{SchemeGSIS: "00-0033873"}},
	)

	idx, skipped := NewIndex(items)
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d: %v", len(skipped), skipped)
	}
	if idx.Len() != 3 {
		t.Fatalf("expected 3 indexed identities, got %d", idx.Len())
	}

	got, ok := idx.ByID(SchemeGSIS, "00-0033873")
	if !ok || got.Name != "Patrick Mahomes" {
		t.Fatalf("first row must win the duplicate id, got %+v ok=%v", got, ok)
	}
}

func TestByAnyIDDetectsScheme(t *testing.T) {
	t.Parallel()

	idx, _ := NewIndex(sampleIdentities())

	tests := []struct {
		name   string
		token  string
		scheme Scheme
		player string
	}{
		{name: "gsis shape", token: "00-0034857", scheme: SchemeGSIS, player: "Josh Allen"},
		{name: "espn shape", token: "3139477", scheme: SchemeESPN, player: "Patrick Mahomes"},
		{name: "short numeric", token: "2330", scheme: SchemeESPN, player: "Tom Brady"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, scheme, ok := idx.ByAnyID(tc.token)
			if !ok {
				t.Fatalf("expected hit for %q", tc.token)
			}
			if scheme != tc.scheme {
				t.Fatalf("expected scheme %s, got %s", tc.scheme, scheme)
			}
			if got.Name != tc.player {
				t.Fatalf("expected %s, got %s", tc.player, got.Name)
			}
		})
	}

	if _, _, ok := idx.ByAnyID("not-an-id"); ok {
		t.Fatal("expected miss for non-id token")
	}
}

func TestByNameUsesNormalizedForm(t *testing.T) {
	t.Parallel()

	idx, _ := NewIndex(sampleIdentities())

	matches := idx.ByName(NormalizeName("PATRICK  MAHOMES"))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Team != "KC" {
		t.Fatalf("expected KC, got %s", matches[0].Team)
	}

	if got := idx.ByName(NormalizeName("Nobody Nowhere")); got != nil {
		t.Fatalf("expected nil for unknown name, got %v", got)
	}
}

func TestCandidatesAreSortedByName(t *testing.T) {
	t.Parallel()

	idx, _ := NewIndex(sampleIdentities())

	candidates := idx.Candidates()
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i-1].NormalizedName() > candidates[i].NormalizedName() {
			t.Fatalf("candidates out of order at %d: %s > %s",
				i, candidates[i-1].Name, candidates[i].Name)
		}
	}
}

func TestConvertCrossesSchemes(t *testing.T) {
	t.Parallel()

	idx, _ := NewIndex(sampleIdentities())

	espn, ok := idx.Convert("00-0033873", SchemeGSIS, SchemeESPN)
	if !ok {
		t.Fatal("expected conversion to succeed")
	}
	if espn != "3139477" {
		t.Fatalf("expected 3139477, got %s", espn)
	}

	if _, ok := idx.Convert("00-0033873", SchemeGSIS, SchemeNFL); ok {
		t.Fatal("expected miss when target scheme id is absent")
	}
	if _, ok := idx.Convert("404", SchemeESPN, SchemeGSIS); ok {
		t.Fatal("expected miss for unknown source id")
	}
}
