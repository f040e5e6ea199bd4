package normalizer

import (
	"encoding/json"
	"strings"
)

// maxParseDepth ограничивает рекурсию DeepParse. Upstream оборачивает ответ
// не более чем в два-три слоя, запас до десяти защищает стек от
// враждебной вложенности.
const maxParseDepth = 10

// DeepParse рекурсивно разворачивает ответ upstream неизвестной формы:
// строка с валидным JSON разбирается и разворачивается дальше, непустой
// массив сводится к своему первому элементу (upstream оборачивает
// единственный результат в массив), остальные значения возвращаются как есть.
// Строка, не являющаяся JSON, — базовый случай: обычный текстовый лист.
func DeepParse(v any) any {
	return deepParse(v, 0)
}

func deepParse(v any, depth int) any {
	if depth >= maxParseDepth {
		return v
	}
	switch val := v.(type) {
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(val), &parsed); err != nil {
			return val
		}
		return deepParse(parsed, depth+1)
	case []any:
		if len(val) == 0 {
			return val
		}
		return deepParse(val[0], depth+1)
	}
	return v
}

// StripCodeFence убирает markdown-ограждение ```json ... ``` вокруг ответа
// языковой модели. Модель иногда игнорирует режим json_object и возвращает
// JSON внутри блока кода.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
