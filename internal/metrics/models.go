package metrics

// AgentMetric summarises one agent's tickets over the window.
type AgentMetric struct {
	AgentID           string         `json:"agente_id"`
	AgentName         string         `json:"agente_nome"`
	Department        string         `json:"departamento"`
	Period            string         `json:"periodo"`
	TotalTickets      int            `json:"total_tickets"`
	ResolvedTickets   int            `json:"tickets_resolvidos"`
	OpenTickets       int            `json:"tickets_abertos"`
	InProgressTickets int            `json:"tickets_em_andamento"`
	ResolutionRate    float64        `json:"taxa_resolucao_pct"`
	MeanResolution    float64        `json:"tempo_medio_resolucao_minutos"`
	MeanFirstResponse float64        `json:"tempo_medio_primeira_resposta_minutos"`
	MeanSatisfaction  float64        `json:"satisfacao_media"`
	SLARate           float64        `json:"taxa_sla_pct"`
	ReopenedTickets   int            `json:"tickets_reabertos"`
	MeanInteractions  float64        `json:"media_interacoes_por_ticket"`
	TicketsByChannel  map[string]int `json:"tickets_por_canal"`
	TicketsByPriority map[string]int `json:"tickets_por_prioridade"`
	DailyProductivity float64        `json:"produtividade_diaria"`
	GoalMet           bool           `json:"meta_atingida"`
}

// DepartmentMetric summarises every ticket of a department, whoever handled it.
type DepartmentMetric struct {
	Department        string         `json:"departamento"`
	Code              string         `json:"codigo"`
	TotalTickets      int            `json:"total_tickets"`
	ResolvedTickets   int            `json:"tickets_resolvidos"`
	ResolutionRate    float64        `json:"taxa_resolucao_pct"`
	MeanResolution    float64        `json:"tempo_medio_resolucao_minutos"`
	MeanFirstResponse float64        `json:"tempo_medio_primeira_resposta_minutos"`
	MeanSatisfaction  float64        `json:"satisfacao_media"`
	SLARate           float64        `json:"taxa_sla_pct"`
	ReopenedTickets   int            `json:"tickets_reabertos"`
	MeanInteractions  float64        `json:"media_interacoes_por_ticket"`
	TicketsByChannel  map[string]int `json:"tickets_por_canal"`
	TicketsByPriority map[string]int `json:"tickets_por_prioridade"`
	TicketsByStatus   map[string]int `json:"tickets_por_status"`
	MeanDailyVolume   float64        `json:"volume_diario_medio"`
}

// DailyVolume is the ticket count of one calendar day.
type DailyVolume struct {
	Date                string         `json:"data"`
	Weekday             string         `json:"dia_semana"`
	TotalTickets        int            `json:"total_tickets"`
	TicketsByDepartment map[string]int `json:"tickets_por_departamento"`
	TicketsByChannel    map[string]int `json:"tickets_por_canal"`
	TicketsByPriority   map[string]int `json:"tickets_por_prioridade"`
}

// MonthlyVolume is the ticket count and outcome of one calendar month.
type MonthlyVolume struct {
	Month            string  `json:"mes"`
	TotalTickets     int     `json:"total_tickets"`
	ResolvedTickets  int     `json:"tickets_resolvidos"`
	MeanSatisfaction float64 `json:"satisfacao_media"`
	MeanResolution   float64 `json:"tempo_medio_resolucao"`
}

// Summary is the window-wide rollup.
type Summary struct {
	TotalTickets      int     `json:"total_tickets"`
	ResolvedTickets   int     `json:"tickets_resolvidos"`
	ResolutionRate    float64 `json:"taxa_resolucao_geral"`
	MeanSatisfaction  float64 `json:"satisfacao_geral"`
	MeanResolution    float64 `json:"tempo_medio_resolucao_geral"`
	ActiveAgents      int     `json:"agentes_ativos"`
	ActiveDepartments int     `json:"departamentos_ativos"`
}

// Result holds every rollup computed from one ticket stream.
type Result struct {
	Agents      []AgentMetric
	Departments []DepartmentMetric
	Daily       map[string]DailyVolume
	Monthly     map[string]MonthlyVolume
	Summary     Summary
}
