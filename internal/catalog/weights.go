package catalog

import (
	"slices"
	"strings"
)

// Weighted is a categorical distribution: Values[i] is drawn with probability
// Weights[i] / sum(Weights).
type Weighted[T any] struct {
	Values  []T
	Weights []int
}

// AgeBucket classifies how long a ticket has existed relative to the end of
// the window.
type AgeBucket int

const (
	AgeRecent AgeBucket = iota // up to 7 days
	AgeMid                     // 8 to 30 days
	AgeOld                     // more than 30 days
)

func (b AgeBucket) String() string {
	switch b {
	case AgeOld:
		return "old"
	case AgeMid:
		return "mid"
	default:
		return "recent"
	}
}

// AgeBucketFor maps a ticket age in whole days to its bucket.
func AgeBucketFor(days int) AgeBucket {
	switch {
	case days > 30:
		return AgeOld
	case days > 7:
		return AgeMid
	default:
		return AgeRecent
	}
}

var severeMarkers = []string{"Crítica", "Bug"}

// IsSevereType reports whether a ticket type name denotes a defect or critical class.
func IsSevereType(ticketType string) bool {
	for _, m := range severeMarkers {
		if strings.Contains(ticketType, m) {
			return true
		}
	}
	return false
}

func PriorityWeights(severe bool) Weighted[Priority] {
	if severe {
		return Weighted[Priority]{Values: slices.Clone(priorities), Weights: []int{10, 30, 40, 20}}
	}
	return Weighted[Priority]{Values: slices.Clone(priorities), Weights: []int{30, 50, 15, 5}}
}

func StatusWeights(bucket AgeBucket) Weighted[Status] {
	switch bucket {
	case AgeOld:
		return Weighted[Status]{Values: slices.Clone(statuses), Weights: []int{5, 10, 5, 5, 35, 35, 5}}
	case AgeMid:
		return Weighted[Status]{Values: slices.Clone(statuses), Weights: []int{10, 20, 15, 10, 25, 15, 5}}
	default:
		return Weighted[Status]{Values: slices.Clone(statuses), Weights: []int{25, 30, 20, 15, 5, 3, 2}}
	}
}

func ChannelWeights() Weighted[Channel] {
	return Weighted[Channel]{Values: slices.Clone(channels), Weights: []int{30, 25, 20, 15, 8, 2}}
}

func ExperienceWeights() Weighted[Experience] {
	return Weighted[Experience]{Values: slices.Clone(experiences), Weights: []int{30, 40, 25, 5}}
}

func ActiveWeights() Weighted[bool] {
	return Weighted[bool]{Values: []bool{true, false}, Weights: []int{95, 5}}
}

func SLAWeights() Weighted[bool] {
	return Weighted[bool]{Values: []bool{true, false}, Weights: []int{85, 15}}
}

var weekdayHours = []int{1, 1, 1, 1, 1, 1, 2, 3, 8, 12, 15, 18, 20, 18, 15, 12, 8, 5, 3, 2, 1, 1, 1, 1}

// WeekdayHourWeights is the business-hours skew of ticket creation on weekdays.
func WeekdayHourWeights() Weighted[int] {
	hours := make([]int, 24)
	for h := range hours {
		hours[h] = h
	}
	return Weighted[int]{Values: hours, Weights: slices.Clone(weekdayHours)}
}

// LatencyFactors returns the [lo, hi] multipliers applied to a department
// baseline when drawing resolution latency.
func LatencyFactors(p Priority) (lo, hi float64) {
	switch p {
	case PriorityCritical:
		return 0.3, 0.7
	case PriorityHigh:
		return 0.6, 1.2
	case PriorityNormal:
		return 0.8, 1.5
	default:
		return 1.2, 2.0
	}
}

const (
	SatisfactionBaseline = 4.0
	SatisfactionFast     = 4.5
	SatisfactionSlow     = 3.5
	SatisfactionSpread   = 0.5
	SatisfactionMin      = 1.0
	SatisfactionMax      = 5.0
	fastLatencyThreshold = 0.8
	slowLatencyThreshold = 1.5
)

// SatisfactionBase picks the centre of the satisfaction draw from how the
// resolution latency compares to the department baseline.
func SatisfactionBase(latencyMinutes, baselineMinutes int) float64 {
	switch {
	case float64(latencyMinutes) < float64(baselineMinutes)*fastLatencyThreshold:
		return SatisfactionFast
	case float64(latencyMinutes) > float64(baselineMinutes)*slowLatencyThreshold:
		return SatisfactionSlow
	default:
		return SatisfactionBaseline
	}
}
