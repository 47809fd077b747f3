package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/godilite/supportsim/internal/catalog"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrInvalidRange  = errors.New("invalid range")
)

// Agent is a support agent. Agents are created once by the roster generator
// and never modified afterwards.
type Agent struct {
	ID                 string             `json:"id"`
	Name               string             `json:"nome"`
	Email              string             `json:"email"`
	Department         string             `json:"departamento"`
	DepartmentCode     string             `json:"codigo_departamento"`
	Experience         catalog.Experience `json:"nivel_experiencia"`
	HireDate           string             `json:"data_admissao"`
	Active             bool               `json:"ativo"`
	Shift              catalog.Shift      `json:"turno"`
	DailyTicketTarget  int                `json:"meta_tickets_dia"`
	SatisfactionTarget float64            `json:"meta_satisfacao"`
	BaseSalary         int                `json:"salario_base"`
	Phone              string             `json:"telefone"`
	Supervisor         bool               `json:"supervisor"`
}

// Ticket is one support interaction.
//
// ResolvedAt, ResolutionMinutes, SLAMet and Satisfaction are set exactly when
// Status.IsResolved(). FirstResponseAt and FirstResponseMinutes are set
// exactly when Status is not StatusOpen.
type Ticket struct {
	ID                   string           `json:"id"`
	Number               int              `json:"numero_ticket"`
	Title                string           `json:"titulo"`
	Description          string           `json:"descricao"`
	Type                 string           `json:"tipo"`
	Category             string           `json:"categoria"`
	Subcategory          string           `json:"subcategoria"`
	Priority             catalog.Priority `json:"prioridade"`
	Status               catalog.Status   `json:"status"`
	Channel              catalog.Channel  `json:"canal"`
	CustomerID           string           `json:"cliente_id"`
	CustomerName         string           `json:"cliente_nome"`
	AgentID              string           `json:"agente_id"`
	AgentName            string           `json:"agente_nome"`
	Department           string           `json:"departamento"`
	CreatedAt            time.Time        `json:"data_criacao"`
	FirstResponseAt      *time.Time       `json:"data_primeira_resposta"`
	ResolvedAt           *time.Time       `json:"data_resolucao"`
	ResolutionMinutes    *int             `json:"tempo_resolucao_minutos"`
	FirstResponseMinutes *int             `json:"tempo_primeira_resposta_minutos"`
	Satisfaction         *float64         `json:"satisfacao_cliente"`
	Tags                 []string         `json:"tags"`
	Interactions         int              `json:"interacoes"`
	Reopened             bool             `json:"reaberto"`
	SLAMet               *bool            `json:"sla_cumprido"`
}

// Day returns the calendar day the ticket was created on, as YYYY-MM-DD.
func (t Ticket) Day() string {
	return t.CreatedAt.Format(dateLayout)
}

// Month returns the calendar month the ticket was created in, as YYYY-MM.
func (t Ticket) Month() string {
	return t.CreatedAt.Format("2006-01")
}

// Window is an inclusive range of calendar days in UTC.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow normalises both bounds to UTC midnight of their calendar dates and
// rejects an end before the start.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: truncateDay(start), End: truncateDay(end)}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidWindow,
			w.End.Format(dateLayout), w.Start.Format(dateLayout))
	}
	return w, nil
}

// ParseWindow builds a window from two YYYY-MM-DD strings.
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return Window{}, fmt.Errorf("%w: start: %v", ErrInvalidWindow, err)
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return Window{}, fmt.Errorf("%w: end: %v", ErrInvalidWindow, err)
	}
	return NewWindow(s, e)
}

// Days is the number of calendar days in the window, both ends included.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Now is the instant the simulation treats as the present: the midnight
// after the last day of the window.
func (w Window) Now() time.Time {
	return w.End.AddDate(0, 0, 1)
}

// EachDay calls fn for every day of the window in order.
func (w Window) EachDay(fn func(day time.Time)) {
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// Months lists every YYYY-MM touched by the window in order.
func (w Window) Months() []string {
	var out []string
	m := time.Date(w.Start.Year(), w.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !m.After(w.End) {
		out = append(out, m.Format("2006-01"))
		m = m.AddDate(0, 1, 0)
	}
	return out
}

// Label renders the window as "YYYY-MM-DD a YYYY-MM-DD".
func (w Window) Label() string {
	return w.Start.Format(dateLayout) + " a " + w.End.Format(dateLayout)
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int
	Max int
}

func (r IntRange) Validate() error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// truncateDay keeps the calendar date as seen in t's own location.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
