package team

import "fmt"

// Conference is one of the two NFL conferences.
type Conference string

const (
	ConferenceAFC Conference = "AFC"
	ConferenceNFC Conference = "NFC"
)

// Team is one NFL franchise under its current canonical abbreviation.
type Team struct {
	Abbreviation string
	Name         string
	Nickname     string
	Conference   Conference
	Division     string
}

func (t Team) Validate() error {
	if t.Abbreviation == "" {
		return fmt.Errorf("team abbreviation is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Conference != ConferenceAFC && t.Conference != ConferenceNFC {
		return fmt.Errorf("invalid team conference: %s", t.Conference)
	}
	if t.Division == "" {
		return fmt.Errorf("team division is required")
	}

	return nil
}
