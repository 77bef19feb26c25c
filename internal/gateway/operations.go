package gateway

// Operation names.
const (
	OpSaveInteraction = "save_interaction"
	OpSaveNote        = "save_note"
	OpGetStats        = "get_stats"
	OpGetLogs         = "get_logs"
	OpListDiaries     = "list_diaries"
	OpListArticles    = "list_articles"
)

// Operation describes one named request the gateway accepts.
type Operation struct {
	Name        string
	Description string
	SchemaJSON  string
}

// Operations lists every operation in registration order.
var Operations = []Operation{
	{
		Name:        OpSaveInteraction,
		Description: "Guarda una interacción o experiencia con IA en el log",
		SchemaJSON: `{
  "type": "object",
  "properties": {
    "tool": {"type": "string", "description": "Herramienta usada (Edit, Bash, Read, etc.)"},
    "context": {"type": "string", "description": "Contexto de la interacción (archivo, comando, etc.)"},
    "outcome": {"type": "string", "enum": ["success", "partial", "failed"], "description": "Resultado de la interacción"},
    "notes": {"type": "string", "description": "Notas adicionales sobre la interacción"}
  },
  "required": ["tool", "context"]
}`,
	},
	{
		Name:        OpSaveNote,
		Description: "Guarda una nota o reflexión personal",
		SchemaJSON: `{
  "type": "object",
  "properties": {
    "content": {"type": "string", "description": "Contenido de la nota"},
    "category": {"type": "string", "description": "Categoría (learning, idea, tip, reflection)"},
    "tags": {"type": "array", "items": {"type": "string"}, "description": "Tags para la nota"}
  },
  "required": ["content"]
}`,
	},
	{
		Name:        OpGetStats,
		Description: "Obtiene estadísticas de uso",
		SchemaJSON: `{
  "type": "object",
  "properties": {
    "period": {"type": "string", "enum": ["today", "week", "month", "all"], "description": "Período de tiempo para las estadísticas"}
  }
}`,
	},
	{
		Name:        OpGetLogs,
		Description: "Obtiene los logs de interacciones",
		SchemaJSON: `{
  "type": "object",
  "properties": {
    "date": {"type": "string", "description": "Fecha en formato YYYY-MM-DD (default: hoy)"},
    "limit": {"type": "number", "description": "Número máximo de entradas a devolver"}
  }
}`,
	},
	{
		Name:        OpListDiaries,
		Description: "Lista los diarios generados",
		SchemaJSON: `{
  "type": "object",
  "properties": {
    "limit": {"type": "number", "description": "Número máximo de diarios a listar"}
  }
}`,
	},
	{
		Name:        OpListArticles,
		Description: "Lista los artículos generados",
		SchemaJSON: `{
  "type": "object",
  "properties": {
    "limit": {"type": "number", "description": "Número máximo de artículos a listar"}
  }
}`,
	},
}

// Lookup returns the operation called name.
func Lookup(name string) (Operation, bool) {
	for _, op := range Operations {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}
