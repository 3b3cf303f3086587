package models

import "time"

// CommunicationStyle enumerates how often a user wants to hear from a partner.
type CommunicationStyle string

const (
	CommunicationFrequent CommunicationStyle = "FREQUENT"
	CommunicationModerate CommunicationStyle = "MODERATE"
	CommunicationMinimal  CommunicationStyle = "MINIMAL"
)

// Weekday keys for the preferred work hours mapping.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// Weekdays lists all weekday keys in calendar order.
var Weekdays = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WorkHours is a declared daily working interval in whole hours (0-23).
type WorkHours struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// MatchingPreferences holds everything a user has declared about who they
// want to be matched with. Optional fields are pointers or nilable
// collections; absence degrades scoring to a neutral value, it never fails.
type MatchingPreferences struct {
	UserID              string                `json:"userId"`
	PreferredTimezone   string                `json:"preferredTimezone,omitempty"`
	PreferredWorkHours  map[string]*WorkHours `json:"preferredWorkHours,omitempty"`
	FocusAreas          []string              `json:"focusAreas,omitempty"`
	Goals               []string              `json:"goals,omitempty"`
	CommunicationStyle  CommunicationStyle    `json:"communicationStyle,omitempty"`
	PersonalityType     string                `json:"personalityType,omitempty"`
	MatchingEnabled     bool                  `json:"matchingEnabled"`
	TimezoneFlexibility int                   `json:"timezoneFlexibility"`
	MinCommitmentHours  int                   `json:"minCommitmentHours"`
	MaxPartners         int                   `json:"maxPartners"`
	Language            string                `json:"language,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// PreferencesUpdate carries a partial preference write. Nil fields are left
// untouched on merge; set fields overwrite.
type PreferencesUpdate struct {
	UserID              string                `json:"userId"`
	PreferredTimezone   *string               `json:"preferredTimezone,omitempty"`
	PreferredWorkHours  map[string]*WorkHours `json:"preferredWorkHours,omitempty"`
	FocusAreas          []string              `json:"focusAreas,omitempty"`
	Goals               []string              `json:"goals,omitempty"`
	CommunicationStyle  *CommunicationStyle   `json:"communicationStyle,omitempty"`
	PersonalityType     *string               `json:"personalityType,omitempty"`
	MatchingEnabled     *bool                 `json:"matchingEnabled,omitempty"`
	TimezoneFlexibility *int                  `json:"timezoneFlexibility,omitempty"`
	MinCommitmentHours  *int                  `json:"minCommitmentHours,omitempty"`
	MaxPartners         *int                  `json:"maxPartners,omitempty"`
	Language            *string               `json:"language,omitempty"`
}

// DefaultPreferences returns the preferences created for a user who has
// never written any.
func DefaultPreferences(userID string) *MatchingPreferences {
	now := time.Now().UTC()
	return &MatchingPreferences{
		UserID:              userID,
		MatchingEnabled:     true,
		TimezoneFlexibility: 2,
		MinCommitmentHours:  10,
		MaxPartners:         3,
		Language:            "en",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Merge applies the non-nil fields of upd onto p.
func (p *MatchingPreferences) Merge(upd *PreferencesUpdate) {
	if upd.PreferredTimezone != nil {
		p.PreferredTimezone = *upd.PreferredTimezone
	}
	if upd.PreferredWorkHours != nil {
		p.PreferredWorkHours = upd.PreferredWorkHours
	}
	if upd.FocusAreas != nil {
		p.FocusAreas = upd.FocusAreas
	}
	if upd.Goals != nil {
		p.Goals = upd.Goals
	}
	if upd.CommunicationStyle != nil {
		p.CommunicationStyle = *upd.CommunicationStyle
	}
	if upd.PersonalityType != nil {
		p.PersonalityType = *upd.PersonalityType
	}
	if upd.MatchingEnabled != nil {
		p.MatchingEnabled = *upd.MatchingEnabled
	}
	if upd.TimezoneFlexibility != nil {
		p.TimezoneFlexibility = *upd.TimezoneFlexibility
	}
	if upd.MinCommitmentHours != nil {
		p.MinCommitmentHours = *upd.MinCommitmentHours
	}
	if upd.MaxPartners != nil {
		p.MaxPartners = *upd.MaxPartners
	}
	if upd.Language != nil {
		p.Language = *upd.Language
	}
}
