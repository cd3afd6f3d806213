package activity

import "math/rand"

// Evaluation rules (activity 8). Grading happens client-side; these constants
// are published so every surface agrees on them.
const (
	EvaluationQuestionCount = 15
	EvaluationPassScore     = 70
	EvaluationMaxAttempts   = 3

	minPerCategory = 5
)

// Question categories.
const (
	CategoryConceptual  = "conceptual"
	CategoryProcedural  = "procedural"
	CategoryApplication = "application"
)

type Question struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	// Answer is the index of the correct option.
	Answer int `json:"answer"`
}

var questionBank = []Question{
	// Conceptuales
	{ID: 1, Category: CategoryConceptual, Text: "¿Cuál es la forma general de una función lineal?", Options: []string{"y = x²", "y = mx + b", "y = 1/x", "y = √x"}, Answer: 1},
	{ID: 2, Category: CategoryConceptual, Text: "En y = mx + b, ¿qué representa m?", Options: []string{"El intercepto", "La pendiente", "La variable", "El origen"}, Answer: 1},
	{ID: 3, Category: CategoryConceptual, Text: "En y = mx + b, ¿qué representa b?", Options: []string{"La pendiente", "El intercepto con el eje y", "El intercepto con el eje x", "El dominio"}, Answer: 1},
	{ID: 4, Category: CategoryConceptual, Text: "Una función lineal con pendiente negativa es:", Options: []string{"Creciente", "Decreciente", "Constante", "Indefinida"}, Answer: 1},
	{ID: 5, Category: CategoryConceptual, Text: "La gráfica de una función lineal siempre es:", Options: []string{"Una parábola", "Una recta", "Una curva", "Un círculo"}, Answer: 1},
	{ID: 6, Category: CategoryConceptual, Text: "Si m = 0 en y = mx + b, la función es:", Options: []string{"Creciente", "Decreciente", "Constante", "Cuadrática"}, Answer: 2},
	{ID: 7, Category: CategoryConceptual, Text: "¿En qué punto cruza la recta y = 3x + 2 el eje y?", Options: []string{"(0, 3)", "(2, 0)", "(0, 2)", "(3, 0)"}, Answer: 2},
	{ID: 8, Category: CategoryConceptual, Text: "Dos rectas con la misma pendiente son:", Options: []string{"Perpendiculares", "Paralelas", "Iguales", "Secantes"}, Answer: 1},

	// Procedimentales
	{ID: 9, Category: CategoryProcedural, Text: "¿Cuál es la pendiente entre los puntos (0, 0) y (2, 4)?", Options: []string{"1", "2", "4", "1/2"}, Answer: 1},
	{ID: 10, Category: CategoryProcedural, Text: "¿Cuál es la pendiente entre los puntos (1, 3) y (3, 7)?", Options: []string{"2", "3", "4", "1"}, Answer: 0},
	{ID: 11, Category: CategoryProcedural, Text: "En y = -2x + 5, ¿cuál es la pendiente?", Options: []string{"5", "2", "-2", "-5"}, Answer: 2},
	{ID: 12, Category: CategoryProcedural, Text: "Si y = 4x - 1, ¿cuánto vale y cuando x = 2?", Options: []string{"7", "8", "6", "9"}, Answer: 0},
	{ID: 13, Category: CategoryProcedural, Text: "Si y = 2x + 3 y y = 11, ¿cuánto vale x?", Options: []string{"3", "4", "5", "7"}, Answer: 1},
	{ID: 14, Category: CategoryProcedural, Text: "¿Cuál recta pasa por (0, -3) con pendiente 2?", Options: []string{"y = 2x + 3", "y = -3x + 2", "y = 2x - 3", "y = 3x - 2"}, Answer: 2},
	{ID: 15, Category: CategoryProcedural, Text: "¿Dónde corta y = x - 4 al eje x?", Options: []string{"(0, 4)", "(4, 0)", "(-4, 0)", "(0, -4)"}, Answer: 1},
	{ID: 16, Category: CategoryProcedural, Text: "La pendiente entre (2, 5) y (2, 9) es:", Options: []string{"0", "2", "4", "No está definida"}, Answer: 3},

	// Aplicación
	{ID: 17, Category: CategoryApplication, Text: "Si el costo de luz es y = 450x + 20000, ¿cuánto pagas si no consumes nada?", Options: []string{"$450", "$0", "$20,000", "$20,450"}, Answer: 2},
	{ID: 18, Category: CategoryApplication, Text: "Si ahorras $15,000/mes y ya tienes $50,000, en m meses tendrás:", Options: []string{"15000m pesos", "50000m pesos", "15000m + 50000 pesos", "50000 + 15000 pesos"}, Answer: 2},
	{ID: 19, Category: CategoryApplication, Text: "Un taxi cobra $5,000 de banderazo más $2,000 por km. ¿Cuál es la función del costo?", Options: []string{"y = 5000x + 2000", "y = 2000x + 5000", "y = 7000x", "y = 2000x"}, Answer: 1},
	{ID: 20, Category: CategoryApplication, Text: "Un carro viaja a 60 km/h constantes. ¿Qué distancia recorre en t horas?", Options: []string{"d = 60 + t", "d = 60t", "d = t/60", "d = 60/t"}, Answer: 1},
	{ID: 21, Category: CategoryApplication, Text: "En y = 450x + 20000 (costo de luz), la pendiente representa:", Options: []string{"El cargo fijo", "El costo por unidad consumida", "El consumo total", "El descuento"}, Answer: 1},
	{ID: 22, Category: CategoryApplication, Text: "Un plan de celular cuesta $30,000 fijos más $200 por minuto. ¿Cuánto cuestan 50 minutos?", Options: []string{"$40,000", "$30,200", "$10,000", "$35,000"}, Answer: 0},
	{ID: 23, Category: CategoryApplication, Text: "Si una vela de 20 cm se consume 2 cm por hora, su altura tras t horas es:", Options: []string{"h = 2t - 20", "h = 20 + 2t", "h = 20 - 2t", "h = 2t"}, Answer: 2},
	{ID: 24, Category: CategoryApplication, Text: "El agua cuesta y = 300x + 8000. ¿Cuánto pagas por 10 m³?", Options: []string{"$3,000", "$8,300", "$11,000", "$10,800"}, Answer: 2},
}

// QuestionBank returns a copy of the full evaluation bank.
func QuestionBank() []Question {
	out := make([]Question, len(questionBank))
	copy(out, questionBank)
	return out
}

// SampleEvaluation draws EvaluationQuestionCount questions from the bank:
// at least minPerCategory from each category, topped up from the remainder,
// and returned in shuffled order.
func SampleEvaluation(rng *rand.Rand) []Question {
	byCategory := map[string][]Question{}
	for _, q := range questionBank {
		byCategory[q.Category] = append(byCategory[q.Category], q)
	}

	picked := make([]Question, 0, EvaluationQuestionCount)
	seen := make(map[int]bool, EvaluationQuestionCount)
	for _, cat := range []string{CategoryConceptual, CategoryProcedural, CategoryApplication} {
		qs := byCategory[cat]
		rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		for _, q := range qs[:minPerCategory] {
			picked = append(picked, q)
			seen[q.ID] = true
		}
	}

	// top up to the full count with any unused questions
	if len(picked) < EvaluationQuestionCount {
		remaining := make([]Question, 0, len(questionBank)-len(picked))
		for _, q := range questionBank {
			if !seen[q.ID] {
				remaining = append(remaining, q)
			}
		}
		rng.Shuffle(len(remaining), func(i, j int) { remaining[i], remaining[j] = remaining[j], remaining[i] })
		picked = append(picked, remaining[:EvaluationQuestionCount-len(picked)]...)
	}

	rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked
}
