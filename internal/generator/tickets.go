package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
)

var ErrNoActiveAgents = errors.New("roster has no active agents")

const (
	minFirstResponse = 5
	maxFirstResponse = 120
	minInteractions  = 1
	maxInteractions  = 8
	maxTags          = 3
	customerPool     = 500
	descriptionWords = 24
)

// SimulationConfig controls the ticket stream.
type SimulationConfig struct {
	Window        domain.Window
	WeekdayVolume domain.IntRange
	WeekendVolume domain.IntRange
}

// Daily ticket ranges of a typical help desk.
var (
	DefaultWeekdayVolume = domain.IntRange{Min: 80, Max: 120}
	DefaultWeekendVolume = domain.IntRange{Min: 20, Max: 40}
)

// Simulate produces the ordered ticket stream for every day of the window.
// Tickets are only assigned to active agents; a roster without any is rejected.
func Simulate(cat *catalog.Catalog, roster []domain.Agent, cfg SimulationConfig, s *Sampler) ([]domain.Ticket, error) {
	active := ActiveAgents(roster)
	if len(active) == 0 {
		return nil, ErrNoActiveAgents
	}
	if err := cfg.WeekdayVolume.Validate(); err != nil {
		return nil, fmt.Errorf("weekday volume: %w", err)
	}
	if err := cfg.WeekendVolume.Validate(); err != nil {
		return nil, fmt.Errorf("weekend volume: %w", err)
	}

	sim := &simulation{
		cat:        cat,
		s:          s,
		now:        cfg.Window.Now(),
		subcats:    cat.Subcategories(),
		tags:       cat.Tags(),
		hourWeight: catalog.WeekdayHourWeights(),
	}

	var tickets []domain.Ticket
	cfg.Window.EachDay(func(day time.Time) {
		weekday := isWeekday(day)
		volume := cfg.WeekendVolume
		if weekday {
			volume = cfg.WeekdayVolume
		}

		n := s.IntBetween(volume.Min, volume.Max)
		for i := 0; i < n; i++ {
			agent := active[s.Index(len(active))]
			tickets = append(tickets, sim.ticket(len(tickets)+1, day, weekday, agent))
		}
	})
	return tickets, nil
}

type simulation struct {
	cat        *catalog.Catalog
	s          *Sampler
	now        time.Time
	subcats    []string
	tags       []string
	hourWeight catalog.Weighted[int]
}

func (sim *simulation) ticket(number int, day time.Time, weekday bool, agent domain.Agent) domain.Ticket {
	s := sim.s
	dept, _ := sim.cat.Department(agent.Department)

	hour := s.IntBetween(0, 23)
	if weekday {
		hour = Pick(s, sim.hourWeight)
	}
	created := day.Add(time.Duration(hour)*time.Hour +
		time.Duration(s.IntBetween(0, 59))*time.Minute +
		time.Duration(s.IntBetween(0, 59))*time.Second)

	ticketType := sim.cat.TicketTypeAt(dept.Name, s.Index(sim.cat.TicketTypeCount(dept.Name)))
	priority := Pick(s, catalog.PriorityWeights(catalog.IsSevereType(ticketType)))

	ageDays := int(sim.now.Sub(created).Hours() / 24)
	status := Pick(s, catalog.StatusWeights(catalog.AgeBucketFor(ageDays)))

	t := domain.Ticket{
		ID:          fmt.Sprintf("TKT%06d", number),
		Number:      number,
		Title:       ticketType + " - " + s.fake.BuzzWord() + " " + s.fake.BS(),
		Description: sim.description(),
		Type:        ticketType,
		Category:    dept.Name,
		Subcategory: sim.subcats[s.Index(len(sim.subcats))],
		Priority:    priority,
		Status:      status,
		Channel:     Pick(s, catalog.ChannelWeights()),
		CustomerID:  fmt.Sprintf("CLI%04d", s.IntBetween(1, customerPool)),
		AgentID:     agent.ID,
		AgentName:   agent.Name,
		Department:  dept.Name,
		CreatedAt:   created,
	}
	t.CustomerName = s.fake.Company()

	sim.outcome(&t, dept.BaselineMinutes)
	return t
}

// outcome draws every field whose presence depends on the ticket status.
func (sim *simulation) outcome(t *domain.Ticket, baseline int) {
	s := sim.s
	if t.Status != catalog.StatusOpen {
		minutes := s.IntBetween(minFirstResponse, maxFirstResponse)
		at := t.CreatedAt.Add(time.Duration(minutes) * time.Minute)
		t.FirstResponseMinutes = &minutes
		t.FirstResponseAt = &at
	}

	if t.Status.IsResolved() {
		sim.resolve(t, baseline)
	}
	sim.capFirstResponse(t)

	t.Tags = s.Sample(sim.tags, s.IntBetween(0, maxTags))
	t.Interactions = s.IntBetween(minInteractions, maxInteractions)
	if t.Status.IsResolved() {
		t.Reopened = s.Coin()
		sla := Pick(s, catalog.SLAWeights())
		t.SLAMet = &sla
	}
}

// resolve fills the resolution outcome: latency scaled by priority against the
// department baseline, a resolution instant capped at the end of the window and
// a satisfaction score centred on how fast the ticket was closed.
func (sim *simulation) resolve(t *domain.Ticket, baseline int) {
	s := sim.s
	lo, hi := catalog.LatencyFactors(t.Priority)
	latency := s.IntBetween(int(float64(baseline)*lo), int(float64(baseline)*hi))

	resolvedAt := t.CreatedAt.Add(time.Duration(latency) * time.Minute)
	if resolvedAt.After(sim.now) {
		resolvedAt = sim.now
	}

	base := catalog.SatisfactionBase(latency, baseline)
	score := round(s.FloatBetween(base-catalog.SatisfactionSpread, base+catalog.SatisfactionSpread), 1)
	score = min(catalog.SatisfactionMax, max(catalog.SatisfactionMin, score))

	t.ResolutionMinutes = &latency
	t.ResolvedAt = &resolvedAt
	t.Satisfaction = &score
}

// capFirstResponse keeps the first response no later than the resolution and
// the end of the window, with the minutes matching the capped instant.
func (sim *simulation) capFirstResponse(t *domain.Ticket) {
	if t.FirstResponseAt == nil {
		return
	}
	limit := sim.now
	if t.ResolvedAt != nil && t.ResolvedAt.Before(limit) {
		limit = *t.ResolvedAt
	}
	if !t.FirstResponseAt.After(limit) {
		return
	}
	at := limit
	minutes := int(at.Sub(t.CreatedAt) / time.Minute)
	t.FirstResponseAt = &at
	t.FirstResponseMinutes = &minutes
}

func (sim *simulation) description() string {
	words := make([]string, descriptionWords)
	for i := range words {
		words[i] = sim.s.fake.Word()
	}
	return capitalize(strings.Join(words, " ")) + "."
}

func capitalize(text string) string {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

func isWeekday(day time.Time) bool {
	wd := day.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
