package generator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
)

func supportCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.Department{{Name: "Support", Code: "SUP", Complexity: catalog.ComplexityMedium, BaselineMinutes: 60}},
		map[string][]string{"Support": {"Login Issue"}},
	)
	require.NoError(t, err)
	return cat
}

func mustWindow(t *testing.T, start, end string) domain.Window {
	t.Helper()
	w, err := domain.ParseWindow(start, end)
	require.NoError(t, err)
	return w
}

func generate(t *testing.T, seed uint64) ([]domain.Agent, []domain.Ticket) {
	t.Helper()
	cat := catalog.Default()
	window := mustWindow(t, "2024-02-01", "2024-03-15")
	s := NewSampler(seed)

	roster, err := GenerateRoster(cat, catalog.DefaultHeadcount, window.End, s)
	require.NoError(t, err)

	tickets, err := Simulate(cat, roster, SimulationConfig{
		Window:        window,
		WeekdayVolume: domain.IntRange{Min: 20, Max: 30},
		WeekendVolume: domain.IntRange{Min: 5, Max: 10},
	}, s)
	require.NoError(t, err)
	return roster, tickets
}

func TestGenerate_Deterministic(t *testing.T) {
	rosterA, ticketsA := generate(t, 42)
	rosterB, ticketsB := generate(t, 42)

	a, err := json.Marshal(struct {
		R []domain.Agent
		T []domain.Ticket
	}{rosterA, ticketsA})
	require.NoError(t, err)
	b, err := json.Marshal(struct {
		R []domain.Agent
		T []domain.Ticket
	}{rosterB, ticketsB})
	require.NoError(t, err)

	assert.Equal(t, string(a), string(b))

	_, ticketsC := generate(t, 7)
	assert.NotEqual(t, ticketsA, ticketsC)
}

func TestGenerateRoster(t *testing.T) {
	cat := catalog.Default()
	asOf := time.Date(2024, 8, 7, 0, 0, 0, 0, time.UTC)

	t.Run("covers every department up to its headcount", func(t *testing.T) {
		roster, err := GenerateRoster(cat, catalog.DefaultHeadcount, asOf, NewSampler(1))
		require.NoError(t, err)
		assert.Len(t, roster, 35)

		perDept := map[string]int{}
		ids := map[string]bool{}
		for i, a := range roster {
			perDept[a.Department]++
			assert.False(t, ids[a.ID], "duplicate id %s", a.ID)
			ids[a.ID] = true

			dept, ok := cat.Department(a.Department)
			require.True(t, ok)
			assert.Equal(t, dept.Code, a.DepartmentCode)
			assert.GreaterOrEqual(t, a.DailyTicketTarget, 15)
			assert.LessOrEqual(t, a.DailyTicketTarget, 35)
			assert.GreaterOrEqual(t, a.SatisfactionTarget, 4.2)
			assert.LessOrEqual(t, a.SatisfactionTarget, 4.8)
			assert.NotEmpty(t, a.Name)
			if i == 0 {
				assert.Equal(t, "AGT001", a.ID)
			}
		}
		for _, h := range catalog.DefaultHeadcount {
			assert.Equal(t, h.Agents, perDept[h.Department])
		}
	})

	t.Run("zero headcount yields an empty roster", func(t *testing.T) {
		roster, err := GenerateRoster(cat, []catalog.Headcount{{Department: "Financeiro", Agents: 0}}, asOf, NewSampler(1))
		require.NoError(t, err)
		assert.Empty(t, roster)
	})

	t.Run("unknown department", func(t *testing.T) {
		_, err := GenerateRoster(cat, []catalog.Headcount{{Department: "Legal", Agents: 2}}, asOf, NewSampler(1))
		assert.ErrorIs(t, err, ErrUnknownDepartment)
	})

	t.Run("negative headcount", func(t *testing.T) {
		_, err := GenerateRoster(cat, []catalog.Headcount{{Department: "Financeiro", Agents: -1}}, asOf, NewSampler(1))
		assert.ErrorIs(t, err, ErrNegativeHeadcount)
	})
}

func TestSimulate_Invariants(t *testing.T) {
	roster, tickets := generate(t, 42)
	require.NotEmpty(t, tickets)

	agents := map[string]domain.Agent{}
	for _, a := range roster {
		agents[a.ID] = a
	}

	end := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	for i, tk := range tickets {
		assert.Equal(t, i+1, tk.Number)

		agent, ok := agents[tk.AgentID]
		require.True(t, ok, "ticket %s references unknown agent", tk.ID)
		assert.True(t, agent.Active, "ticket %s assigned to inactive agent", tk.ID)
		assert.Equal(t, agent.Department, tk.Department)
		assert.Contains(t, catalog.Default().TicketTypes(tk.Department), tk.Type)

		resolved := tk.Status.IsResolved()
		assert.Equal(t, resolved, tk.ResolvedAt != nil, tk.ID)
		assert.Equal(t, resolved, tk.ResolutionMinutes != nil, tk.ID)
		assert.Equal(t, resolved, tk.SLAMet != nil, tk.ID)
		assert.Equal(t, resolved, tk.Satisfaction != nil, tk.ID)
		if !resolved {
			assert.False(t, tk.Reopened)
		}

		notOpen := tk.Status != catalog.StatusOpen
		assert.Equal(t, notOpen, tk.FirstResponseAt != nil, tk.ID)
		assert.Equal(t, notOpen, tk.FirstResponseMinutes != nil, tk.ID)

		if tk.Satisfaction != nil {
			assert.GreaterOrEqual(t, *tk.Satisfaction, 1.0)
			assert.LessOrEqual(t, *tk.Satisfaction, 5.0)
		}
		if tk.ResolvedAt != nil {
			assert.False(t, tk.ResolvedAt.After(end))
			assert.False(t, tk.ResolvedAt.Before(tk.CreatedAt))
		}
		if tk.FirstResponseAt != nil {
			assert.False(t, tk.FirstResponseAt.After(end))
			if tk.ResolvedAt != nil {
				assert.False(t, tk.FirstResponseAt.After(*tk.ResolvedAt), tk.ID)
			}
		}
		assert.LessOrEqual(t, len(tk.Tags), 3)
		assert.GreaterOrEqual(t, tk.Interactions, 1)
		assert.LessOrEqual(t, tk.Interactions, 8)
	}
}

func TestSimulate_FixedVolumeScenario(t *testing.T) {
	cat := supportCatalog(t)
	window := mustWindow(t, "2024-02-01", "2024-02-07")
	s := NewSampler(42)

	roster, err := GenerateRoster(cat, []catalog.Headcount{{Department: "Support", Agents: 2}}, window.End, s)
	require.NoError(t, err)
	for i := range roster {
		roster[i].Active = true
	}

	tickets, err := Simulate(cat, roster, SimulationConfig{
		Window:        window,
		WeekdayVolume: domain.IntRange{Min: 5, Max: 5},
		WeekendVolume: domain.IntRange{Min: 5, Max: 5},
	}, s)
	require.NoError(t, err)
	assert.Len(t, tickets, 35)

	perDay := map[string]int{}
	for _, tk := range tickets {
		perDay[tk.Day()]++
		assert.Equal(t, "Login Issue", tk.Type)
	}
	assert.Len(t, perDay, 7)
	for day, n := range perDay {
		assert.Equal(t, 5, n, day)
	}
}

func TestSimulate_InactiveAgentNeverAssigned(t *testing.T) {
	cat := supportCatalog(t)
	window := mustWindow(t, "2024-02-01", "2024-02-29")
	roster := []domain.Agent{
		{ID: "AGT001", Department: "Support", DepartmentCode: "SUP", Active: true},
		{ID: "AGT002", Department: "Support", DepartmentCode: "SUP", Active: false},
	}

	tickets, err := Simulate(cat, roster, SimulationConfig{
		Window:        window,
		WeekdayVolume: domain.IntRange{Min: 10, Max: 20},
		WeekendVolume: domain.IntRange{Min: 1, Max: 5},
	}, NewSampler(3))
	require.NoError(t, err)
	require.NotEmpty(t, tickets)

	for _, tk := range tickets {
		assert.NotEqual(t, "AGT002", tk.AgentID)
	}
}

func TestSimulate_NoActiveAgents(t *testing.T) {
	cat := supportCatalog(t)
	window := mustWindow(t, "2024-02-01", "2024-02-07")
	roster := []domain.Agent{{ID: "AGT001", Department: "Support", Active: false}}

	tickets, err := Simulate(cat, roster, SimulationConfig{
		Window:        window,
		WeekdayVolume: domain.IntRange{Min: 1, Max: 1},
		WeekendVolume: domain.IntRange{Min: 1, Max: 1},
	}, NewSampler(1))
	assert.ErrorIs(t, err, ErrNoActiveAgents)
	assert.Nil(t, tickets)
}

func TestSimulate_InvalidVolume(t *testing.T) {
	cat := supportCatalog(t)
	window := mustWindow(t, "2024-02-01", "2024-02-07")
	roster := []domain.Agent{{ID: "AGT001", Department: "Support", Active: true}}

	_, err := Simulate(cat, roster, SimulationConfig{
		Window:        window,
		WeekdayVolume: domain.IntRange{Min: 10, Max: 5},
		WeekendVolume: domain.IntRange{Min: 1, Max: 1},
	}, NewSampler(1))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestOutcome_ForcedStatus(t *testing.T) {
	cat := supportCatalog(t)
	window := mustWindow(t, "2024-02-01", "2024-02-07")
	sim := &simulation{cat: cat, s: NewSampler(9), now: window.Now(), tags: cat.Tags()}
	created := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)

	t.Run("open ticket carries no outcome", func(t *testing.T) {
		tk := domain.Ticket{Status: catalog.StatusOpen, Priority: catalog.PriorityHigh, CreatedAt: created}
		sim.outcome(&tk, 60)

		assert.Nil(t, tk.ResolvedAt)
		assert.Nil(t, tk.ResolutionMinutes)
		assert.Nil(t, tk.Satisfaction)
		assert.Nil(t, tk.SLAMet)
		assert.Nil(t, tk.FirstResponseAt)
		assert.Nil(t, tk.FirstResponseMinutes)
		assert.False(t, tk.Reopened)
	})

	t.Run("in progress ticket has a first response only", func(t *testing.T) {
		tk := domain.Ticket{Status: catalog.StatusInProgress, Priority: catalog.PriorityNormal, CreatedAt: created}
		sim.outcome(&tk, 60)

		require.NotNil(t, tk.FirstResponseMinutes)
		require.NotNil(t, tk.FirstResponseAt)
		assert.Equal(t, created.Add(time.Duration(*tk.FirstResponseMinutes)*time.Minute), *tk.FirstResponseAt)
		assert.Nil(t, tk.ResolvedAt)
		assert.Nil(t, tk.Satisfaction)
	})

	t.Run("critical resolution latency within its band", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			tk := domain.Ticket{Status: catalog.StatusResolved, Priority: catalog.PriorityCritical, CreatedAt: created}
			sim.outcome(&tk, 100)

			require.NotNil(t, tk.ResolutionMinutes)
			assert.GreaterOrEqual(t, *tk.ResolutionMinutes, 30)
			assert.LessOrEqual(t, *tk.ResolutionMinutes, 70)
			require.NotNil(t, tk.Satisfaction)
			assert.InDelta(t, 4.5, *tk.Satisfaction, 0.5+1e-9)
			require.NotNil(t, tk.SLAMet)
		}
	})

	t.Run("resolution capped at the end of the window", func(t *testing.T) {
		late := time.Date(2024, 2, 7, 23, 50, 0, 0, time.UTC)
		tk := domain.Ticket{Status: catalog.StatusClosed, Priority: catalog.PriorityLow, CreatedAt: late}
		sim.outcome(&tk, 240)

		require.NotNil(t, tk.ResolvedAt)
		assert.Equal(t, window.Now(), *tk.ResolvedAt)
	})

	t.Run("first response never after resolution", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			tk := domain.Ticket{Status: catalog.StatusResolved, Priority: catalog.PriorityCritical, CreatedAt: created}
			sim.outcome(&tk, 30)

			require.NotNil(t, tk.FirstResponseAt)
			require.NotNil(t, tk.ResolvedAt)
			assert.False(t, tk.FirstResponseAt.After(*tk.ResolvedAt))
			assert.Equal(t, created.Add(time.Duration(*tk.FirstResponseMinutes)*time.Minute), *tk.FirstResponseAt)
		}
	})

	t.Run("first response capped at the end of the window", func(t *testing.T) {
		late := time.Date(2024, 2, 7, 23, 58, 0, 0, time.UTC)
		for i := 0; i < 20; i++ {
			tk := domain.Ticket{Status: catalog.StatusAwaitingClient, Priority: catalog.PriorityNormal, CreatedAt: late}
			sim.outcome(&tk, 60)

			require.NotNil(t, tk.FirstResponseAt)
			assert.False(t, tk.FirstResponseAt.After(window.Now()))
			assert.LessOrEqual(t, *tk.FirstResponseMinutes, 2)
		}
	})
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Ótimo atendimento", capitalize("ótimo atendimento"))
	assert.Equal(t, "Abc", capitalize("abc"))
	assert.Equal(t, "", capitalize(""))
}

func TestPick_RespectsZeroWeights(t *testing.T) {
	s := NewSampler(5)
	w := catalog.Weighted[string]{Values: []string{"a", "b", "c"}, Weights: []int{0, 1, 0}}
	for i := 0; i < 100; i++ {
		assert.Equal(t, "b", Pick(s, w))
	}
}

func TestSampler_Sample(t *testing.T) {
	s := NewSampler(5)
	items := []string{"a", "b", "c", "d"}

	got := s.Sample(items, 3)
	assert.Len(t, got, 3)
	seen := map[string]bool{}
	for _, v := range got {
		assert.False(t, seen[v])
		seen[v] = true
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, items)
	assert.Len(t, s.Sample(items, 10), 4)
}
