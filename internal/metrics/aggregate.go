package metrics

import (
	"context"
	"maps"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
)

// goalShare is the fraction of an agent's capacity target that counts as meeting it.
const goalShare = 0.8

// Aggregate computes every rollup of a closed ticket stream. The rollups only
// read their inputs, so they run concurrently; each one is ordered on its own
// and the result does not depend on scheduling.
func Aggregate(ctx context.Context, cat *catalog.Catalog, window domain.Window, roster []domain.Agent, tickets []domain.Ticket) (Result, error) {
	var res Result
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res.Agents = AgentMetrics(cat, window, roster, tickets)
		return ctx.Err()
	})
	g.Go(func() error {
		res.Departments = DepartmentMetrics(cat, window, tickets)
		return ctx.Err()
	})
	g.Go(func() error {
		res.Daily = DailyVolumes(cat, window, tickets)
		return ctx.Err()
	})
	g.Go(func() error {
		res.Monthly = MonthlyVolumes(window, tickets)
		return ctx.Err()
	})
	g.Go(func() error {
		res.Summary = Summarize(cat, roster, tickets)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// AgentMetrics returns one entry per roster agent, in roster order, including
// agents without tickets.
func AgentMetrics(cat *catalog.Catalog, window domain.Window, roster []domain.Agent, tickets []domain.Ticket) []AgentMetric {
	byAgent := make(map[string]*tally, len(roster))
	for _, a := range roster {
		byAgent[a.ID] = newTally(cat)
	}
	for i := range tickets {
		if t, ok := byAgent[tickets[i].AgentID]; ok {
			t.add(&tickets[i])
		}
	}

	days := window.Days()
	out := make([]AgentMetric, 0, len(roster))
	for _, a := range roster {
		t := byAgent[a.ID]
		out = append(out, AgentMetric{
			AgentID:           a.ID,
			AgentName:         a.Name,
			Department:        a.Department,
			Period:            window.Label(),
			TotalTickets:      t.total,
			ResolvedTickets:   t.resolved,
			OpenTickets:       t.open,
			InProgressTickets: t.inProgress,
			ResolutionRate:    t.resolutionRate(),
			MeanResolution:    t.meanResolution(),
			MeanFirstResponse: t.meanFirstResp(),
			MeanSatisfaction:  t.meanSatisfaction(),
			SLARate:           t.slaRate(),
			ReopenedTickets:   t.reopened,
			MeanInteractions:  t.meanInteractions(),
			TicketsByChannel:  t.byChannel,
			TicketsByPriority: t.byPriority,
			DailyProductivity: perDay(t.total, days),
			GoalMet:           float64(t.total) >= float64(a.DailyTicketTarget*days)*goalShare,
		})
	}
	return out
}

// DepartmentMetrics returns one entry per catalog department that received at
// least one ticket, in catalog order.
func DepartmentMetrics(cat *catalog.Catalog, window domain.Window, tickets []domain.Ticket) []DepartmentMetric {
	byDept := make(map[string]*tally)
	for i := range tickets {
		name := tickets[i].Department
		t, ok := byDept[name]
		if !ok {
			t = newTally(cat)
			byDept[name] = t
		}
		t.add(&tickets[i])
	}

	days := window.Days()
	out := make([]DepartmentMetric, 0, len(byDept))
	for _, d := range cat.Departments() {
		t, ok := byDept[d.Name]
		if !ok || t.total == 0 {
			continue
		}
		out = append(out, DepartmentMetric{
			Department:        d.Name,
			Code:              d.Code,
			TotalTickets:      t.total,
			ResolvedTickets:   t.resolved,
			ResolutionRate:    t.resolutionRate(),
			MeanResolution:    t.meanResolution(),
			MeanFirstResponse: t.meanFirstResp(),
			MeanSatisfaction:  t.meanSatisfaction(),
			SLARate:           t.slaRate(),
			ReopenedTickets:   t.reopened,
			MeanInteractions:  t.meanInteractions(),
			TicketsByChannel:  t.byChannel,
			TicketsByPriority: t.byPriority,
			TicketsByStatus:   t.byStatus,
			MeanDailyVolume:   perDay(t.total, days),
		})
	}
	return out
}

// DailyVolumes returns exactly one entry per calendar day of the window, keyed
// by YYYY-MM-DD. Days without tickets are zero-filled.
func DailyVolumes(cat *catalog.Catalog, window domain.Window, tickets []domain.Ticket) map[string]DailyVolume {
	zeroDept := make(map[string]int)
	for _, d := range cat.Departments() {
		zeroDept[d.Name] = 0
	}
	zeroChannel := make(map[string]int)
	for _, c := range cat.Channels() {
		zeroChannel[string(c)] = 0
	}
	zeroPriority := make(map[string]int)
	for _, p := range cat.Priorities() {
		zeroPriority[string(p)] = 0
	}

	out := make(map[string]DailyVolume, window.Days())
	window.EachDay(func(day time.Time) {
		key := day.Format("2006-01-02")
		out[key] = DailyVolume{
			Date:                key,
			Weekday:             day.Weekday().String(),
			TicketsByDepartment: maps.Clone(zeroDept),
			TicketsByChannel:    maps.Clone(zeroChannel),
			TicketsByPriority:   maps.Clone(zeroPriority),
		}
	})

	for i := range tickets {
		tk := &tickets[i]
		v, ok := out[tk.Day()]
		if !ok {
			continue
		}
		v.TotalTickets++
		v.TicketsByDepartment[tk.Department]++
		v.TicketsByChannel[string(tk.Channel)]++
		v.TicketsByPriority[string(tk.Priority)]++
		out[tk.Day()] = v
	}
	return out
}

// MonthlyVolumes returns one entry per calendar month touched by the window,
// keyed by YYYY-MM.
func MonthlyVolumes(window domain.Window, tickets []domain.Ticket) map[string]MonthlyVolume {
	type acc struct {
		total, resolved int
		satSum          float64
		satN            int
		resSum          float64
		resN            int
	}
	accs := make(map[string]*acc)
	for _, m := range window.Months() {
		accs[m] = &acc{}
	}

	for i := range tickets {
		tk := &tickets[i]
		a, ok := accs[tk.Month()]
		if !ok {
			continue
		}
		a.total++
		if tk.Status.IsResolved() {
			a.resolved++
		}
		if tk.Satisfaction != nil {
			a.satSum += *tk.Satisfaction
			a.satN++
		}
		if tk.ResolutionMinutes != nil {
			a.resSum += float64(*tk.ResolutionMinutes)
			a.resN++
		}
	}

	out := make(map[string]MonthlyVolume, len(accs))
	for m, a := range accs {
		out[m] = MonthlyVolume{
			Month:            m,
			TotalTickets:     a.total,
			ResolvedTickets:  a.resolved,
			MeanSatisfaction: mean(a.satSum, a.satN),
			MeanResolution:   mean(a.resSum, a.resN),
		}
	}
	return out
}

// Summarize computes the window-wide rollup.
func Summarize(cat *catalog.Catalog, roster []domain.Agent, tickets []domain.Ticket) Summary {
	t := newTally(cat)
	for i := range tickets {
		t.add(&tickets[i])
	}

	active := 0
	for _, a := range roster {
		if a.Active {
			active++
		}
	}

	return Summary{
		TotalTickets:      t.total,
		ResolvedTickets:   t.resolved,
		ResolutionRate:    t.resolutionRate(),
		MeanSatisfaction:  t.meanSatisfaction(),
		MeanResolution:    t.meanResolution(),
		ActiveAgents:      active,
		ActiveDepartments: len(cat.Departments()),
	}
}
