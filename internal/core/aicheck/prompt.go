package aicheck

import (
	"fmt"
	"strings"
)

// systemPrompt pins the model to JSON-only output.
const systemPrompt = "Ты - эксперт по проверке ответов. Всегда отвечай только валидным JSON."

// buildPrompt renders the verification prompt. Prompt construction is data,
// not logic: variants, optional context and the JSON contract are embedded
// verbatim.
func buildPrompt(in Input) string {
	quoted := make([]string, len(in.Variants))
	for i, v := range in.Variants {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	variantsStr := strings.Join(quoted, ", ")

	contextLine := ""
	if in.QuestionContext != "" {
		contextLine = "Контекст вопроса: " + in.QuestionContext + "\n"
	}

	return fmt.Sprintf(`Ты - система проверки ответов на тесты. Твоя задача - определить, является ли ответ студента правильным по смыслу.

Правильные варианты ответа: %s

Ответ студента: %q

%sПроанализируй ответ студента и определи:
1. Является ли он правильным по смыслу (даже если формулировка отличается)? Принимай синонимы, другие падежи и 1-2 опечатки, если смысл ясен.
2. Насколько ты уверен в своей оценке (от 0%% до 100%%)?
3. Краткое объяснение (1-2 предложения)

Верни ответ СТРОГО в формате JSON:
{
    "is_correct": true или false,
    "confidence": число от 0 до 100,
    "explanation": "краткое объяснение"
}

Примеры:
- Правильный ответ: "синий", Ответ студента: "голубой" -> is_correct: true (похожие цвета)
- Правильный ответ: "25", Ответ студента: "двадцать пять" -> is_correct: true (то же число)
- Правильный ответ: "Париж", Ответ студента: "Лондон" -> is_correct: false (разные города)
- Правильный ответ: "архивация", Ответ студента: "сжатие файлов" -> is_correct: true (синонимы)

Твой ответ (только JSON):`, variantsStr, in.StudentAnswer, contextLine)
}
