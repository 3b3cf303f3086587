package models

// UserProfile is the slice of the user record the matcher needs. Interests
// come from the profile, not from matching preferences.
type UserProfile struct {
	ID                 string             `json:"id"`
	DisplayName        string             `json:"displayName"`
	Timezone           string             `json:"timezone,omitempty"`
	Interests          []string           `json:"interests,omitempty"`
	CommunicationStyle CommunicationStyle `json:"communicationStyle,omitempty"`
	PersonalityType    string             `json:"personalityType,omitempty"`
	ExperienceLevel    string             `json:"experienceLevel,omitempty"`
}
