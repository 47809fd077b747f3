package generator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
)

var (
	ErrUnknownDepartment = errors.New("unknown department")
	ErrNegativeHeadcount = errors.New("negative headcount")
)

const (
	minDailyTarget        = 15
	maxDailyTarget        = 35
	minSatisfactionTarget = 4.2
	maxSatisfactionTarget = 4.8
	minSalary             = 3000
	maxSalary             = 8000
	supervisorCandidates  = 2
)

// GenerateRoster builds agents department by department in plan order, with
// sequential ids starting at AGT001. Hire dates fall between three years and
// six months before asOf.
func GenerateRoster(cat *catalog.Catalog, plan []catalog.Headcount, asOf time.Time, s *Sampler) ([]domain.Agent, error) {
	total := 0
	for _, h := range plan {
		if _, ok := cat.Department(h.Department); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, h.Department)
		}
		if h.Agents < 0 {
			return nil, fmt.Errorf("%w: %q has %d", ErrNegativeHeadcount, h.Department, h.Agents)
		}
		total += h.Agents
	}

	shifts := cat.Shifts()
	hireFrom := asOf.AddDate(-3, 0, 0)
	hireTo := asOf.AddDate(0, -6, 0)
	hireSpanDays := int(hireTo.Sub(hireFrom).Hours() / 24)

	agents := make([]domain.Agent, 0, total)
	for _, h := range plan {
		dept, _ := cat.Department(h.Department)
		for i := 0; i < h.Agents; i++ {
			name := s.fake.Name()
			agents = append(agents, domain.Agent{
				ID:                 fmt.Sprintf("AGT%03d", len(agents)+1),
				Name:               name,
				Email:              emailFor(name, s),
				Department:         dept.Name,
				DepartmentCode:     dept.Code,
				Experience:         Pick(s, catalog.ExperienceWeights()),
				HireDate:           hireFrom.AddDate(0, 0, s.IntBetween(0, hireSpanDays)).Format("2006-01-02"),
				Active:             Pick(s, catalog.ActiveWeights()),
				Shift:              shifts[s.Index(len(shifts))],
				DailyTicketTarget:  s.IntBetween(minDailyTarget, maxDailyTarget),
				SatisfactionTarget: round(s.FloatBetween(minSatisfactionTarget, maxSatisfactionTarget), 2),
				BaseSalary:         s.IntBetween(minSalary, maxSalary),
				Phone:              s.fake.Phone(),
				Supervisor:         i < supervisorCandidates && s.Coin(),
			})
		}
	}
	return agents, nil
}

func emailFor(name string, s *Sampler) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return local + "@" + s.fake.DomainName()
}

// ActiveAgents returns the agents eligible to receive new tickets.
func ActiveAgents(roster []domain.Agent) []domain.Agent {
	active := make([]domain.Agent, 0, len(roster))
	for _, a := range roster {
		if a.Active {
			active = append(active, a)
		}
	}
	return active
}
