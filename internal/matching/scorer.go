// internal/matching/scorer.go
package matching

import (
	"strings"
	"time"

	"buddy-matching/internal/models"
)

// Component weights of the overall compatibility score. These are design
// constants, not tuned parameters.
const (
	weightTimezone      = 0.25
	weightInterest      = 0.20
	weightGoalAlignment = 0.20
	weightActivity      = 0.15
	weightCommunication = 0.10
	weightPersonality   = 0.10
)

// Neutral defaults used when an individual field is missing from an
// otherwise present record. Distinct from the all-zero breakdown returned
// when a whole preferences or profile record is absent.
const (
	neutralScore  = 0.5
	lowDataScore  = 0.3
	selfScoreNote = "Cannot match with yourself"
)

// Scorer computes deterministic, explainable compatibility between two
// users. It is pure computation: all inputs are loaded by the caller.
type Scorer struct {
	// now is injectable so timezone offsets are stable in tests.
	now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// SelfBreakdown is the breakdown returned for a pair (a, a).
func (s *Scorer) SelfBreakdown() *models.CompatibilityBreakdown {
	return &models.CompatibilityBreakdown{Explanation: selfScoreNote}
}

// MissingDataBreakdown is the all-zero breakdown for a pair where at least
// one side has no preferences or no profile record at all.
func (s *Scorer) MissingDataBreakdown() *models.CompatibilityBreakdown {
	return &models.CompatibilityBreakdown{
		Explanation: "Missing user data for compatibility calculation",
	}
}

// Breakdown computes the six component scores and the weighted overall
// score for two users. All four records must be present; absence is the
// caller's concern (see MissingDataBreakdown).
func (s *Scorer) Breakdown(
	prefsA, prefsB *models.MatchingPreferences,
	profileA, profileB *models.UserProfile,
) *models.CompatibilityBreakdown {
	timezone := s.timezoneScore(prefsA.PreferredTimezone, prefsB.PreferredTimezone)
	interest := interestScore(profileA.Interests, profileB.Interests)
	goal := goalAlignmentScore(prefsA.Goals, prefsB.Goals)
	activity := activityPatternScore(prefsA, prefsB)
	communication := communicationStyleScore(prefsA.CommunicationStyle, prefsB.CommunicationStyle)
	personality := personalityScore(profileA.PersonalityType, profileB.PersonalityType)

	overall := timezone*weightTimezone +
		interest*weightInterest +
		goal*weightGoalAlignment +
		activity*weightActivity +
		communication*weightCommunication +
		personality*weightPersonality

	return &models.CompatibilityBreakdown{
		OverallScore:            clamp01(overall),
		TimezoneScore:           timezone,
		InterestScore:           interest,
		GoalAlignmentScore:      goal,
		ActivityPatternScore:    activity,
		CommunicationStyleScore: communication,
		PersonalityScore:        personality,
		Explanation:             explain(overall, timezone, interest),
	}
}

// OffsetHours returns the UTC offset of an IANA zone in whole hours at the
// current instant, or (0, false) for an empty or unparseable zone.
func (s *Scorer) OffsetHours(tz string) (int, bool) {
	if tz == "" {
		return 0, false
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return 0, false
	}
	_, offset := s.now().In(loc).Zone()
	return offset / 3600, true
}

// timezoneScore maps the absolute offset difference onto coarse bands.
// The bands are intentionally not a continuous function.
func (s *Scorer) timezoneScore(tzA, tzB string) float64 {
	if tzA == "" || tzB == "" {
		return neutralScore
	}
	if tzA == tzB {
		return 1.0
	}

	offsetA, okA := s.OffsetHours(tzA)
	offsetB, okB := s.OffsetHours(tzB)
	if !okA || !okB {
		return neutralScore
	}

	diff := offsetA - offsetB
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff == 0:
		return 1.0
	case diff == 1:
		return 0.8
	case diff <= 3:
		return 0.6
	case diff <= 8:
		return max(0.1, 0.5-float64(diff-3)*0.08)
	case diff >= 12:
		return 0.1
	default:
		return max(0.1, 0.3-float64(diff-8)*0.05)
	}
}

// interestScore is intersection size over the average of the two set sizes,
// not strict Jaccard: 2 shared out of 4-and-4 scores 0.5.
func interestScore(interestsA, interestsB []string) float64 {
	if len(interestsA) == 0 || len(interestsB) == 0 {
		return lowDataScore
	}

	setA := toSet(interestsA)
	setB := toSet(interestsB)

	shared := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			shared++
		}
	}

	avgSize := float64(len(setA)+len(setB)) / 2.0
	return float64(shared) / avgSize
}

// goalAlignmentScore is standard Jaccard similarity over the goal sets.
func goalAlignmentScore(goalsA, goalsB []string) float64 {
	if len(goalsA) == 0 || len(goalsB) == 0 {
		return lowDataScore
	}

	setA := toSet(goalsA)
	setB := toSet(goalsB)

	shared := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0.0
	}
	return float64(shared) / float64(union)
}

// activityPatternScore blends work-hour overlap (0.7) with commitment-hour
// closeness (0.3).
func activityPatternScore(prefsA, prefsB *models.MatchingPreferences) float64 {
	workHours := neutralScore
	if len(prefsA.PreferredWorkHours) > 0 && len(prefsB.PreferredWorkHours) > 0 {
		workHours = workHoursOverlap(prefsA.PreferredWorkHours, prefsB.PreferredWorkHours)
	}

	deltaCommitment := float64(prefsA.MinCommitmentHours - prefsB.MinCommitmentHours)
	if deltaCommitment < 0 {
		deltaCommitment = -deltaCommitment
	}
	commitment := 1.0 - min(1.0, deltaCommitment/50.0)

	return workHours*0.7 + commitment*0.3
}

// workHoursOverlap averages the per-weekday interval overlap ratio across
// days declared on both sides. The ratio is overlap hours over the longer of
// the two declared spans for that day.
func workHoursOverlap(hoursA, hoursB map[string]*models.WorkHours) float64 {
	total := 0.0
	validDays := 0

	for _, day := range models.Weekdays {
		dayA := hoursA[day]
		dayB := hoursB[day]
		if dayA == nil || dayB == nil {
			continue
		}

		overlapStart := max(dayA.StartHour, dayB.StartHour)
		overlapEnd := min(dayA.EndHour, dayB.EndHour)
		overlap := max(0, overlapEnd-overlapStart)
		span := max(dayA.EndHour-dayA.StartHour, dayB.EndHour-dayB.StartHour)

		if span > 0 {
			total += float64(overlap) / float64(span)
			validDays++
		}
	}

	if validDays == 0 {
		return neutralScore
	}
	return total / float64(validDays)
}

// communicationStyleScore uses a fixed 3x3 compatibility matrix.
func communicationStyleScore(styleA, styleB models.CommunicationStyle) float64 {
	if styleA == "" || styleB == "" {
		return neutralScore
	}
	if styleA == styleB {
		return 1.0
	}

	matrix := map[models.CommunicationStyle]map[models.CommunicationStyle]float64{
		models.CommunicationFrequent: {
			models.CommunicationModerate: 0.8,
			models.CommunicationMinimal:  0.3,
		},
		models.CommunicationModerate: {
			models.CommunicationFrequent: 0.8,
			models.CommunicationMinimal:  0.7,
		},
		models.CommunicationMinimal: {
			models.CommunicationFrequent: 0.3,
			models.CommunicationModerate: 0.7,
		},
	}

	if row, ok := matrix[styleA]; ok {
		if score, ok := row[styleB]; ok {
			return score
		}
	}
	return neutralScore
}

// personalityScore: identical types score 0.8 rather than 1.0 since some
// diversity is treated as healthy.
func personalityScore(typeA, typeB string) float64 {
	if typeA == "" || typeB == "" {
		return neutralScore
	}
	if typeA == typeB {
		return 0.8
	}
	return 0.6
}

func explain(overall, timezone, interest float64) string {
	var b strings.Builder

	if overall >= 0.8 {
		b.WriteString("Excellent match! ")
	} else if overall >= 0.6 {
		b.WriteString("Good compatibility. ")
	} else {
		b.WriteString("Limited compatibility. ")
	}

	if timezone >= 0.8 {
		b.WriteString("Similar timezones for easy coordination. ")
	} else if timezone <= 0.3 {
		b.WriteString("Different timezones may make coordination challenging. ")
	}

	if interest >= 0.5 {
		b.WriteString("Shared interests provide common ground.")
	} else {
		b.WriteString("Different interests could offer learning opportunities.")
	}

	return b.String()
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
