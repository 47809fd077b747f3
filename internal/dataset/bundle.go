package dataset

import (
	"time"

	"github.com/godilite/supportsim/internal/catalog"
	"github.com/godilite/supportsim/internal/domain"
	"github.com/godilite/supportsim/internal/metrics"
)

// SchemaVersion is bumped whenever the bundle layout changes.
const SchemaVersion = "1.0"

type Period struct {
	Start time.Time `json:"inicio"`
	End   time.Time `json:"fim"`
}

type RecordCounts struct {
	Agents      int `json:"agentes"`
	Tickets     int `json:"tickets"`
	Departments int `json:"departamentos"`
}

type Metadata struct {
	RunID       string       `json:"run_id"`
	Seed        uint64       `json:"seed"`
	GeneratedAt time.Time    `json:"data_geracao"`
	Period      Period       `json:"periodo_dados"`
	Records     RecordCounts `json:"total_registros"`
	Version     string       `json:"versao"`
}

type DepartmentView struct {
	Code            string             `json:"codigo"`
	Description     string             `json:"descricao"`
	Complexity      catalog.Complexity `json:"nivel_complexidade"`
	BaselineMinutes int                `json:"tempo_medio_resolucao"`
}

// CatalogView is the serialisable form of the catalog.
type CatalogView struct {
	Departments map[string]DepartmentView `json:"departamentos"`
	TicketTypes map[string][]string       `json:"tipos_tickets"`
	Statuses    []catalog.Status          `json:"status_possiveis"`
	Priorities  []catalog.Priority        `json:"prioridades"`
	Channels    []catalog.Channel         `json:"canais_atendimento"`
}

type Volume struct {
	Daily   map[string]metrics.DailyVolume   `json:"volume_diario"`
	Monthly map[string]metrics.MonthlyVolume `json:"volume_mensal"`
}

// Bundle is the complete dataset handed to persistence and visualisation
// consumers. It is never modified after Assemble returns.
type Bundle struct {
	Metadata          Metadata                   `json:"metadata"`
	Catalog           CatalogView                `json:"configuracao"`
	Agents            []domain.Agent             `json:"agentes"`
	Tickets           []domain.Ticket            `json:"tickets"`
	AgentMetrics      []metrics.AgentMetric      `json:"metricas_agentes"`
	DepartmentMetrics []metrics.DepartmentMetric `json:"metricas_departamentos"`
	Volume            Volume                     `json:"dados_volume"`
	Summary           metrics.Summary            `json:"resumo_geral"`
}

type AssembleInput struct {
	RunID       string
	Seed        uint64
	GeneratedAt time.Time
	Catalog     *catalog.Catalog
	Window      domain.Window
	Agents      []domain.Agent
	Tickets     []domain.Ticket
	Metrics     metrics.Result
}

// Assemble wraps already computed parts into a bundle.
func Assemble(in AssembleInput) *Bundle {
	agents := in.Agents
	if agents == nil {
		agents = []domain.Agent{}
	}
	tickets := in.Tickets
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	deptStats := in.Metrics.Departments
	if deptStats == nil {
		deptStats = []metrics.DepartmentMetric{}
	}

	view := NewCatalogView(in.Catalog)
	return &Bundle{
		Metadata: Metadata{
			RunID:       in.RunID,
			Seed:        in.Seed,
			GeneratedAt: in.GeneratedAt,
			Period:      Period{Start: in.Window.Start, End: in.Window.End},
			Records: RecordCounts{
				Agents:      len(agents),
				Tickets:     len(tickets),
				Departments: len(view.Departments),
			},
			Version: SchemaVersion,
		},
		Catalog:           view,
		Agents:            agents,
		Tickets:           tickets,
		AgentMetrics:      in.Metrics.Agents,
		DepartmentMetrics: deptStats,
		Volume: Volume{
			Daily:   in.Metrics.Daily,
			Monthly: in.Metrics.Monthly,
		},
		Summary: in.Metrics.Summary,
	}
}

func NewCatalogView(cat *catalog.Catalog) CatalogView {
	depts := cat.Departments()
	view := CatalogView{
		Departments: make(map[string]DepartmentView, len(depts)),
		TicketTypes: make(map[string][]string, len(depts)),
		Statuses:    cat.Statuses(),
		Priorities:  cat.Priorities(),
		Channels:    cat.Channels(),
	}
	for _, d := range depts {
		view.Departments[d.Name] = DepartmentView{
			Code:            d.Code,
			Description:     d.Description,
			Complexity:      d.Complexity,
			BaselineMinutes: d.BaselineMinutes,
		}
		view.TicketTypes[d.Name] = cat.TicketTypes(d.Name)
	}
	return view
}
