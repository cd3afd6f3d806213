// Package activity holds the static ten-step linear-functions curriculum:
// the ordered activity catalog and the evaluation question bank.
package activity

import "errors"

// Activity types (closed set).
const (
	TypeDiagnostic = "diagnostic"
	TypeLearning   = "learning"
	TypePractice   = "practice"
	TypeGame       = "game"
	TypeEvaluation = "evaluation"
	TypeReflection = "reflection"
	TypeProject    = "project"
)

var ErrNotFound = errors.New("activity not found")

type (
	Content struct {
		Instructions string   `json:"instructions"`
		Objectives   []string `json:"objectives"`
		Materials    []string `json:"materials,omitempty"`
		Steps        []string `json:"steps,omitempty"`
	}

	Activity struct {
		ID            int     `json:"id"`
		Title         string  `json:"title"`
		Description   string  `json:"description"`
		Type          string  `json:"type"`
		EstimatedTime string  `json:"estimated_time"`
		Content       Content `json:"content"`
	}
)

// The curriculum. IDs are 1..N in strict order; the unlock chain follows them.
var activities = []Activity{
	{
		ID:            1,
		Title:         "Conocimientos Previos",
		Description:   "Evaluemos qué sabes sobre plano cartesiano y proporcionalidad",
		Type:          TypeDiagnostic,
		EstimatedTime: "15 min",
		Content: Content{
			Instructions: "Responde las siguientes preguntas para evaluar tus conocimientos previos sobre los temas que necesitarás para aprender función lineal.",
			Objectives: []string{
				"Identificar conocimientos sobre el plano cartesiano",
				"Evaluar comprensión de proporcionalidad directa",
				"Reconocer patrones numéricos básicos",
				"Determinar nivel de preparación para función lineal",
			},
			Materials: []string{
				"Calculadora (opcional)",
				"Papel y lápiz para hacer cálculos",
			},
		},
	},
	{
		ID:            2,
		Title:         "¿Qué voy a aprender?",
		Description:   "Descubre los objetivos y la importancia de la función lineal",
		Type:          TypeLearning,
		EstimatedTime: "20 min",
		Content: Content{
			Instructions: "Explora los conceptos que aprenderás sobre función lineal y cómo se aplican en la vida real.",
			Objectives: []string{
				"Comprender qué es una función lineal",
				"Identificar aplicaciones en la vida cotidiana",
				"Reconocer la importancia en matemáticas",
				"Establecer metas de aprendizaje personales",
			},
			Materials: []string{
				"Videos explicativos",
				"Ejemplos interactivos",
				"Casos de estudio reales",
			},
		},
	},
	{
		ID:            3,
		Title:         "Construcción de Conceptos",
		Description:   "Aprende la definición, forma y=mx+b, pendiente e intercepto",
		Type:          TypeLearning,
		EstimatedTime: "30 min",
		Content: Content{
			Instructions: "Construye tu comprensión de los conceptos fundamentales de la función lineal paso a paso.",
			Objectives: []string{
				"Definir función lineal matemáticamente",
				"Comprender la forma y = mx + b",
				"Identificar la pendiente (m) y su significado",
				"Reconocer el intercepto con el eje y (b)",
			},
			Materials: []string{
				"Gráficas interactivas",
				"Ejemplos visuales",
				"Simulador de funciones",
			},
		},
	},
	{
		ID:            4,
		Title:         "Afianzamiento de Conceptos",
		Description:   "Practica identificando pendientes y graficando funciones",
		Type:          TypePractice,
		EstimatedTime: "25 min",
		Content: Content{
			Instructions: "Refuerza tu comprensión mediante ejercicios prácticos de identificación y graficación.",
			Objectives: []string{
				"Calcular pendientes entre dos puntos",
				"Identificar pendiente e intercepto en ecuaciones",
				"Graficar funciones lineales",
				"Interpretar gráficas existentes",
			},
			Steps: []string{
				"Ejercicios de cálculo de pendiente",
				"Identificación de componentes en ecuaciones",
				"Práctica de graficación",
				"Interpretación de gráficas",
			},
		},
	},
	{
		ID:            5,
		Title:         "Situaciones del Mundo Real",
		Description:   "Resuelve problemas contextualizados: servicios públicos, velocidad, etc.",
		Type:          TypePractice,
		EstimatedTime: "35 min",
		Content: Content{
			Instructions: "Aplica tus conocimientos de función lineal a situaciones reales y problemas contextualizados.",
			Objectives: []string{
				"Modelar situaciones reales con funciones lineales",
				"Resolver problemas de servicios públicos",
				"Analizar problemas de velocidad constante",
				"Interpretar resultados en contexto real",
			},
			Materials: []string{
				"Casos reales de servicios públicos",
				"Problemas de movimiento",
				"Situaciones económicas básicas",
			},
		},
	},
	{
		ID:            6,
		Title:         "Juegos Matemáticos",
		Description:   "Actividades lúdicas: Detective de Pendientes y Carrera de Funciones",
		Type:          TypeGame,
		EstimatedTime: "30 min",
		Content: Content{
			Instructions: "Diviértete mientras aprendes con juegos interactivos diseñados para reforzar conceptos.",
			Objectives: []string{
				"Identificar pendientes de forma lúdica",
				"Competir graficando funciones correctamente",
				"Desarrollar intuición matemática",
				"Consolidar aprendizaje mediante juego",
			},
			Materials: []string{
				"Juego 'Detective de Pendientes'",
				"Juego 'Carrera de Funciones'",
				"Puntajes y clasificaciones",
			},
		},
	},
	{
		ID:            7,
		Title:         "Mi Ciudad en Funciones",
		Description:   "Proyecto colaborativo usando IA para análisis urbano",
		Type:          TypeProject,
		EstimatedTime: "45 min",
		Content: Content{
			Instructions: "Desarrolla un proyecto donde analices aspectos de tu ciudad usando funciones lineales, con ayuda de IA.",
			Objectives: []string{
				"Aplicar función lineal a análisis urbano",
				"Usar IA como herramienta de investigación",
				"Crear presentación de resultados",
				"Colaborar con compañeros virtualmente",
			},
			Materials: []string{
				"Asistente IA especializado",
				"Plantillas de proyecto",
				"Herramientas de presentación",
				"Datos reales de ciudades",
			},
		},
	},
	{
		ID:            8,
		Title:         "Evaluación de Aprendizaje",
		Description:   "Demuestra tu comprensión con 15 preguntas aleatorias",
		Type:          TypeEvaluation,
		EstimatedTime: "40 min",
		Content: Content{
			Instructions: "Completa la evaluación que incluye preguntas sobre todos los conceptos aprendidos.",
			Objectives: []string{
				"Demostrar comprensión de función lineal",
				"Aplicar conceptos a problemas diversos",
				"Alcanzar mínimo 70/100 para aprobar",
				"Identificar áreas de fortaleza y mejora",
			},
			Materials: []string{
				"Banco de preguntas de evaluación",
				"Calculadora permitida",
				"Máximo 3 intentos",
				"Retroalimentación inmediata",
			},
		},
	},
	{
		ID:            9,
		Title:         "Retroalimentación Personalizada",
		Description:   "Análisis de errores y recursos de refuerzo específicos",
		Type:          TypeReflection,
		EstimatedTime: "20 min",
		Content: Content{
			Instructions: "Revisa tu desempeño en la evaluación y accede a recursos personalizados de mejora.",
			Objectives: []string{
				"Analizar errores cometidos en la evaluación",
				"Identificar conceptos a reforzar",
				"Acceder a recursos específicos de mejora",
				"Planificar estrategias de estudio",
			},
			Materials: []string{
				"Análisis detallado de respuestas",
				"Videos de refuerzo específicos",
				"Ejercicios adicionales personalizados",
				"Plan de mejora sugerido",
			},
		},
	},
	{
		ID:            10,
		Title:         "Reflexión de mi Aprendizaje",
		Description:   "Autoevaluación y reflexión metacognitiva sobre el proceso",
		Type:          TypeReflection,
		EstimatedTime: "25 min",
		Content: Content{
			Instructions: "Reflexiona sobre tu proceso de aprendizaje y establece metas para continuar mejorando.",
			Objectives: []string{
				"Reflexionar sobre el proceso de aprendizaje",
				"Identificar estrategias más efectivas",
				"Establecer metas futuras de aprendizaje",
				"Desarrollar consciencia metacognitiva",
			},
			Materials: []string{
				"Cuestionario de autoreflexión",
				"Registro de aprendizaje personal",
				"Metas y objetivos futuros",
				"Certificado de completión",
			},
		},
	},
}

// All returns the full catalog in curriculum order.
func All() []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	return out
}

// Get returns the activity with the given id.
func Get(id int) (Activity, error) {
	for _, act := range activities {
		if act.ID == id {
			return act, nil
		}
	}
	return Activity{}, ErrNotFound
}

// Count returns the total number of activities in the curriculum.
func Count() int {
	return len(activities)
}
