// Package chat builds the tutor conversation sent to the AI relay.
package chat

// Message roles follow the chat-completions convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// historyWindow is how many trailing history messages are kept per request.
const historyWindow = 4

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// systemPrompt frames the model as the linear-functions tutor for 8th graders.
const systemPrompt = `Eres un tutor de matemáticas especializado en función lineal para estudiantes de 8° grado en Colombia.

CARACTERÍSTICAS:
- Eres amigable, paciente y motivador
- Explicas conceptos paso a paso
- Usas ejemplos cotidianos y visuales
- Fomentas el pensamiento crítico
- Te adaptas al nivel del estudiante
- Usas un lenguaje apropiado para adolescentes

CONOCIMIENTOS ESPECÍFICOS:
- Función lineal: y = mx + b
- Pendiente (m) y intercepto (b)
- Plano cartesiano y graficación
- Problemas contextualizados (servicios públicos, velocidad, etc.)
- Proporcionalidad directa
- Interpretación de gráficas

METODOLOGÍA:
- Haz preguntas guía en lugar de dar respuestas directas
- Usa ejemplos prácticos de la vida real
- Celebra los aciertos del estudiante
- Corrige errores con paciencia
- Sugiere estrategias de resolución

FORMATO DE RESPUESTA:
- Máximo 3 párrafos por respuesta
- Incluye emojis ocasionales para hacer más amigable
- Si el estudiante está atascado, ofrece pistas graduales
- Pregunta si necesita más explicación

Contexto actual: `

// BuildMessages assembles the conversation for one tutor turn: the system
// prompt (with the caller's activity context appended), the tail of the
// conversation history, then the new user message.
func BuildMessages(context string, history []Message, message string) []Message {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	msgs := make([]Message, 0, len(history)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: systemPrompt + context})
	msgs = append(msgs, history...)
	msgs = append(msgs, Message{Role: RoleUser, Content: message})
	return msgs
}
