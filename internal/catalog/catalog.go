package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type Complexity string

const (
	ComplexityLow    Complexity = "baixo"
	ComplexityMedium Complexity = "medio"
	ComplexityHigh   Complexity = "alto"
)

// Department is one support department and its resolution baseline.
type Department struct {
	Name            string
	Code            string
	Description     string
	Complexity      Complexity
	BaselineMinutes int
}

type Status string

const (
	StatusOpen           Status = "Aberto"
	StatusInProgress     Status = "Em Andamento"
	StatusAwaitingClient Status = "Aguardando Cliente"
	StatusAwaitingVendor Status = "Aguardando Terceiros"
	StatusResolved       Status = "Resolvido"
	StatusClosed         Status = "Fechado"
	StatusCanceled       Status = "Cancelado"
)

// IsResolved reports whether the status carries a resolution outcome.
func (s Status) IsResolved() bool {
	return s == StatusResolved || s == StatusClosed
}

type Priority string

const (
	PriorityLow      Priority = "Baixa"
	PriorityNormal   Priority = "Normal"
	PriorityHigh     Priority = "Alta"
	PriorityCritical Priority = "Crítica"
)

type Channel string

const (
	ChannelEmail    Channel = "Email"
	ChannelChat     Channel = "Chat"
	ChannelPhone    Channel = "Telefone"
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelPortal   Channel = "Portal"
	ChannelInPerson Channel = "Presencial"
)

type Experience string

const (
	ExperienceJunior     Experience = "Junior"
	ExperienceMid        Experience = "Pleno"
	ExperienceSenior     Experience = "Senior"
	ExperienceSpecialist Experience = "Especialista"
)

type Shift string

const (
	ShiftMorning   Shift = "Manhã"
	ShiftAfternoon Shift = "Tarde"
	ShiftNight     Shift = "Noite"
)

var (
	statuses = []Status{
		StatusOpen, StatusInProgress, StatusAwaitingClient, StatusAwaitingVendor,
		StatusResolved, StatusClosed, StatusCanceled,
	}
	priorities  = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical}
	channels    = []Channel{ChannelEmail, ChannelChat, ChannelPhone, ChannelWhatsApp, ChannelPortal, ChannelInPerson}
	experiences = []Experience{ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceSpecialist}
	shifts      = []Shift{ShiftMorning, ShiftAfternoon, ShiftNight}
	tags        = []string{"urgente", "vip", "recorrente", "escalado", "complexo", "simples"}
	subcategory = []string{"Dúvida", "Problema", "Solicitação", "Reclamação"}
)

// Catalog is the immutable reference data shared by every stage of a run.
// All accessors return copies, so a single instance can back any number of
// concurrent runs.
type Catalog struct {
	departments []Department
	byName      map[string]int
	ticketTypes map[string][]string
}

// New validates and builds a catalog. Department order is preserved and drives
// the order of every per-department output.
func New(departments []Department, ticketTypes map[string][]string) (*Catalog, error) {
	if len(departments) == 0 {
		return nil, fmt.Errorf("%w: no departments", ErrInvalidCatalog)
	}

	c := &Catalog{
		departments: make([]Department, 0, len(departments)),
		byName:      make(map[string]int, len(departments)),
		ticketTypes: make(map[string][]string, len(departments)),
	}
	codes := make(map[string]struct{}, len(departments))

	for _, d := range departments {
		if d.Name == "" || d.Code == "" {
			return nil, fmt.Errorf("%w: department name and code are required", ErrInvalidCatalog)
		}
		if _, dup := c.byName[d.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate department %q", ErrInvalidCatalog, d.Name)
		}
		if _, dup := codes[d.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate department code %q", ErrInvalidCatalog, d.Code)
		}
		if d.BaselineMinutes <= 0 {
			return nil, fmt.Errorf("%w: department %q needs a positive baseline", ErrInvalidCatalog, d.Name)
		}
		types := ticketTypes[d.Name]
		if len(types) == 0 {
			return nil, fmt.Errorf("%w: department %q has no ticket types", ErrInvalidCatalog, d.Name)
		}

		codes[d.Code] = struct{}{}
		c.byName[d.Name] = len(c.departments)
		c.departments = append(c.departments, d)
		c.ticketTypes[d.Name] = slices.Clone(types)
	}

	return c, nil
}

func (c *Catalog) Departments() []Department {
	return slices.Clone(c.departments)
}

func (c *Catalog) Department(name string) (Department, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Department{}, false
	}
	return c.departments[i], true
}

func (c *Catalog) TicketTypes(department string) []string {
	return slices.Clone(c.ticketTypes[department])
}

// TicketTypeAt returns the i-th ticket type of a department without copying
// the vocabulary.
func (c *Catalog) TicketTypeAt(department string, i int) string {
	return c.ticketTypes[department][i]
}

// TicketTypeCount returns the size of a department's vocabulary.
func (c *Catalog) TicketTypeCount(department string) int {
	return len(c.ticketTypes[department])
}

func (c *Catalog) Statuses() []Status        { return slices.Clone(statuses) }
func (c *Catalog) Priorities() []Priority    { return slices.Clone(priorities) }
func (c *Catalog) Channels() []Channel       { return slices.Clone(channels) }
func (c *Catalog) Shifts() []Shift           { return slices.Clone(shifts) }
func (c *Catalog) Experiences() []Experience { return slices.Clone(experiences) }
func (c *Catalog) Tags() []string            { return slices.Clone(tags) }
func (c *Catalog) Subcategories() []string   { return slices.Clone(subcategory) }
