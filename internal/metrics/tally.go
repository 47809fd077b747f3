package metrics

import (
	"math"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
)

// tally accumulates the counters every rollup is derived from. Means and rates
// are only taken over tickets that carry the field, and an empty subset reads
// as zero.
type tally struct {
	total        int
	resolved     int
	open         int
	inProgress   int
	reopened     int
	slaKnown     int
	slaMet       int
	interactions int

	resolutionSum   float64
	resolutionN     int
	firstRespSum    float64
	firstRespN      int
	satisfactionSum float64
	satisfactionN   int

	byChannel  map[string]int
	byPriority map[string]int
	byStatus   map[string]int
}

func newTally(cat *catalog.Catalog) *tally {
	t := &tally{
		byChannel:  make(map[string]int),
		byPriority: make(map[string]int),
		byStatus:   make(map[string]int),
	}
	for _, c := range cat.Channels() {
		t.byChannel[string(c)] = 0
	}
	for _, p := range cat.Priorities() {
		t.byPriority[string(p)] = 0
	}
	for _, s := range cat.Statuses() {
		t.byStatus[string(s)] = 0
	}
	return t
}

func (t *tally) add(tk *domain.Ticket) {
	t.total++
	t.interactions += tk.Interactions
	t.byChannel[string(tk.Channel)]++
	t.byPriority[string(tk.Priority)]++
	t.byStatus[string(tk.Status)]++

	switch tk.Status {
	case catalog.StatusOpen:
		t.open++
	case catalog.StatusInProgress:
		t.inProgress++
	}
	if tk.Status.IsResolved() {
		t.resolved++
	}
	if tk.Reopened {
		t.reopened++
	}
	if tk.SLAMet != nil {
		t.slaKnown++
		if *tk.SLAMet {
			t.slaMet++
		}
	}
	if tk.ResolutionMinutes != nil {
		t.resolutionSum += float64(*tk.ResolutionMinutes)
		t.resolutionN++
	}
	if tk.FirstResponseMinutes != nil {
		t.firstRespSum += float64(*tk.FirstResponseMinutes)
		t.firstRespN++
	}
	if tk.Satisfaction != nil {
		t.satisfactionSum += *tk.Satisfaction
		t.satisfactionN++
	}
}

func (t *tally) resolutionRate() float64   { return percent(t.resolved, t.total) }
func (t *tally) slaRate() float64          { return percent(t.slaMet, t.slaKnown) }
func (t *tally) meanResolution() float64   { return mean(t.resolutionSum, t.resolutionN) }
func (t *tally) meanFirstResp() float64    { return mean(t.firstRespSum, t.firstRespN) }
func (t *tally) meanSatisfaction() float64 { return mean(t.satisfactionSum, t.satisfactionN) }
func (t *tally) meanInteractions() float64 { return mean(float64(t.interactions), t.total) }

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, 2)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return round(sum/float64(n), 2)
}

func perDay(count, days int) float64 {
	if days <= 0 {
		return 0
	}
	return round(float64(count)/float64(days), 2)
}

func round(value float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(value*p) / p
}
