package models

// DepartmentTotal is a department rollup computed by the database.
type DepartmentTotal struct {
	Department       string  `json:"departamento"`
	TotalTickets     int     `json:"total_tickets"`
	ResolvedTickets  int     `json:"tickets_resolvidos"`
	MeanSatisfaction float64 `json:"satisfacao_media"`
	MeanResolution   float64 `json:"tempo_medio_resolucao_minutos"`
}

// DailyCount is the number of tickets created on one calendar day.
type DailyCount struct {
	Day   string `json:"data"`
	Total int    `json:"total_tickets"`
}
