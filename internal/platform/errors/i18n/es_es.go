package i18n

var esESMessages = map[Code]string{
	CodeInvalidFundsLength:  "Debe enviar exactamente una moneda",
	CodeInvalidFundsDenom:   "Denominación de fondos inválida{{if .denom}} {{.denom}}{{end}}",
	CodeInvalidFundsAmount:  "Monto de fondos inválido{{if .amount}} {{.amount}}{{end}}",
	CodeTimeoutCannotBeZero: "El plazo no puede ser cero",
	CodeTimeoutOverflow:     "El plazo está demasiado lejos en el futuro",
	CodeInvalidDenom:        "Denominación inválida{{if .denom}} {{.denom}}{{end}}",
	CodeInvalidAmount:       "Monto inválido{{if .amount}} {{.amount}}{{end}}",
	CodeSameDenom:           "Las denominaciones ofrecida y solicitada deben ser distintas",
	CodeInvalidAddress:      "Dirección inválida{{if .address}} {{.address}}{{end}}",
	CodeDealNotFound:        "No se encontró el acuerdo {{.deal_id}}",
	CodeDealNotOpen:         "El acuerdo {{.deal_id}} no está abierto",
	CodeDealExpired:         "El acuerdo {{.deal_id}} ha expirado",
	CodeDealNotExpired:      "El acuerdo {{.deal_id}} no ha expirado",
	CodeUnauthorized:        "No autorizado",
	CodeUnauthenticated:     "Se requiere la identidad del llamante",
	CodeNotInitialized:      "El motor de custodia no está inicializado",
	CodeAlreadyInitialized:  "El motor de custodia ya está inicializado",
	CodeInvalidFilter:       "Filtro inválido: {{.reason}}",
	CodeInvalidPageToken:    "Token de página inválido",
	CodeCustodyInsufficient: "Los fondos en custodia de {{.denom}} son insuficientes",
}
