package catalog

var defaultDepartments = []Department{
	{
		Name:            "Suporte Técnico",
		Code:            "SUP",
		Description:     "Resolução de problemas técnicos e bugs",
		Complexity:      ComplexityHigh,
		BaselineMinutes: 180,
	},
	{
		Name:            "Atendimento Comercial",
		Code:            "COM",
		Description:     "Vendas, renovações e questões comerciais",
		Complexity:      ComplexityMedium,
		BaselineMinutes: 45,
	},
	{
		Name:            "Financeiro",
		Code:            "FIN",
		Description:     "Cobranças, pagamentos e questões financeiras",
		Complexity:      ComplexityMedium,
		BaselineMinutes: 60,
	},
	{
		Name:            "Onboarding",
		Code:            "ONB",
		Description:     "Implementação e treinamento de novos clientes",
		Complexity:      ComplexityHigh,
		BaselineMinutes: 240,
	},
	{
		Name:            "Relacionamento",
		Code:            "REL",
		Description:     "Gestão de contas e relacionamento com clientes",
		Complexity:      ComplexityLow,
		BaselineMinutes: 30,
	},
}

var defaultTicketTypes = map[string][]string{
	"Suporte Técnico": {
		"Bug no Sistema", "Erro de Integração", "Problema de Performance",
		"Falha de Login", "Erro de Sincronização", "Problema de Conectividade",
		"Falha na API", "Erro de Configuração",
	},
	"Atendimento Comercial": {
		"Solicitação de Proposta", "Renovação de Contrato", "Upgrade de Plano",
		"Cancelamento", "Negociação de Preços", "Informações sobre Produtos",
		"Demonstração", "Consulta Comercial",
	},
	"Financeiro": {
		"Cobrança Indevida", "Problema no Pagamento", "Solicitação de Nota Fiscal",
		"Reembolso", "Alteração de Dados de Cobrança", "Consulta de Faturamento",
		"Parcelamento", "Segunda Via de Boleto",
	},
	"Onboarding": {
		"Configuração Inicial", "Treinamento de Usuários", "Migração de Dados",
		"Integração com Sistemas", "Personalização", "Validação de Setup",
		"Documentação", "Go-Live",
	},
	"Relacionamento": {
		"Check-in Periódico", "Feedback do Cliente", "Solicitação de Melhoria",
		"Renovação Antecipada", "Upsell", "Cross-sell", "Satisfação",
		"Relacionamento Estratégico",
	},
}

// Headcount is the number of agents to generate for one department.
type Headcount struct {
	Department string
	Agents     int
}

// DefaultHeadcount is the roster size per department used when none is configured.
var DefaultHeadcount = []Headcount{
	{"Suporte Técnico", 8},
	{"Atendimento Comercial", 12},
	{"Financeiro", 6},
	{"Onboarding", 5},
	{"Relacionamento", 4},
}

// Default returns the five-department catalog.
func Default() *Catalog {
	c, err := New(defaultDepartments, defaultTicketTypes)
	if err != nil {
		panic(err)
	}
	return c
}
