package models

// CompatibilityBreakdown is the overall compatibility score for a user pair
// plus its six weighted components. All scores lie in [0.0, 1.0].
type CompatibilityBreakdown struct {
	OverallScore            float64 `json:"overallScore"`
	TimezoneScore           float64 `json:"timezoneScore"`
	InterestScore           float64 `json:"interestScore"`
	GoalAlignmentScore      float64 `json:"goalAlignmentScore"`
	ActivityPatternScore    float64 `json:"activityPatternScore"`
	CommunicationStyleScore float64 `json:"communicationStyleScore"`
	PersonalityScore        float64 `json:"personalityScore"`
	Explanation             string  `json:"explanation"`
}

// PotentialMatch is one ranked matching candidate.
type PotentialMatch struct {
	UserID              string             `json:"userId"`
	DisplayName         string             `json:"displayName"`
	Timezone            string             `json:"timezone,omitempty"`
	TimezoneOffsetHours *int               `json:"timezoneOffsetHours,omitempty"`
	CompatibilityScore  float64            `json:"compatibilityScore"`
	CommonInterests     []string           `json:"commonInterests,omitempty"`
	FocusAreas          []string           `json:"focusAreas,omitempty"`
	ExperienceLevel     string             `json:"experienceLevel,omitempty"`
	CommunicationStyle  CommunicationStyle `json:"communicationStyle,omitempty"`
	PersonalityType     string             `json:"personalityType,omitempty"`
	ReasonForMatch      string             `json:"reasonForMatch"`
}
