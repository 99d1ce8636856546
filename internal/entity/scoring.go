package entity

import (
	"strings"
	"time"
)

const (
	BaseScore          = 10
	ServiceBonus       = 25
	LocationBonus      = 20
	SourceBonus        = 20
	BusinessHoursBonus = 15
	EmailBonus         = 10

	MinScore = 0
	MaxScore = 100

	HotThreshold  = 70
	WarmThreshold = 40
)

var (
	DefaultHighIntentServices = []string{
		"Real Estate Marketing",
		"Lead Generation",
		"SEO",
		"PPC",
		"Website Development",
	}
	DefaultTargetLocations  = []string{"Hyderabad", "Vizag", "Bengaluru"}
	DefaultHighValueSources = []string{"Google Ads", "Website"}
)

// Business hours are inclusive on both ends: 09:00:00 and 18:00:00 both earn
// the bonus, 18:00:01 does not.
const (
	BusinessHoursStart = 9 * time.Hour
	BusinessHoursEnd   = 18 * time.Hour
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ScoringRules is immutable once built; share one value across goroutines.
type ScoringRules struct {
	services  map[string]struct{}
	locations map[string]struct{}
	sources   map[string]struct{}
}

func NewScoringRules(services, locations, sources []string) *ScoringRules {
	return &ScoringRules{
		services:  keywordSet(services),
		locations: keywordSet(locations),
		sources:   keywordSet(sources),
	}
}

func DefaultScoringRules() *ScoringRules {
	return NewScoringRules(DefaultHighIntentServices, DefaultTargetLocations, DefaultHighValueSources)
}

// Score is a pure function of the raw attributes.
func (r *ScoringRules) Score(raw RawLead) (int, Category) {
	score := BaseScore

	if matches(r.services, raw.ServiceInterest) {
		score += ServiceBonus
	}
	if matches(r.locations, raw.Location) {
		score += LocationBonus
	}
	if matches(r.sources, raw.Source) {
		score += SourceBonus
	}
	if InBusinessHours(raw.Timestamp) {
		score += BusinessHoursBonus
	}
	if strings.TrimSpace(raw.Email) != "" {
		score += EmailBonus
	}

	score = clamp(score)
	return score, CategoryFor(score)
}

func CategoryFor(score int) Category {
	switch {
	case score >= HotThreshold:
		return CategoryHot
	case score >= WarmThreshold:
		return CategoryWarm
	default:
		return CategoryCold
	}
}

// ParseTimestamp reads the declared wall clock. Zone offsets are kept, not
// converted, so the hour is the one the lead was submitted in.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func InBusinessHours(timestamp string) bool {
	t, ok := ParseTimestamp(timestamp)
	if !ok {
		return false
	}
	clock := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return clock >= BusinessHoursStart && clock <= BusinessHoursEnd
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func keywordSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func matches(set map[string]struct{}, value string) bool {
	_, ok := set[normalize(value)]
	return ok
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
