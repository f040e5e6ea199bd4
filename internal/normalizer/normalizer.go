// Package normalizer восстанавливает структурированный результат генерации
// из ответа upstream непредсказуемой формы: вложенные JSON-строки,
// обёртка в массив из одного элемента, несколько исторических форм ответа
// workflow. Чистые функции без ввода-вывода, безопасны для
// конкурентного вызова.
//
// Для каждого инструмента применяется фиксированный упорядоченный список
// правил распознавания формы; первое совпавшее правило даёт результат.
// Если не совпало ни одно, ответ деградирует до RawContent —
// изменчивость upstream никогда не приводит к ошибке для пользователя.
package normalizer

import (
	"encoding/json"

	"github.com/aiauto/content-tools/internal/models"
)

// wrapperKeys — известные ключи-обёртки, внутри которых workflow
// исторически возвращал полезную нагрузку.
var wrapperKeys = []string{"output", "content", "json"}

// platformKeys — фиксированный набор платформ для подписей.
var platformKeys = []string{"instagram", "facebook", "twitter", "linkedin", "tiktok"}

// ExtractBytes разбирает сырое тело ответа upstream и извлекает контент.
// Тело, не являющееся JSON, трактуется как текстовый лист.
func ExtractBytes(body []byte, tool models.ToolType) Content {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		v = string(body)
	}
	return Extract(v, tool)
}

// Extract приводит уже декодированное значение к Content для инструмента tool.
func Extract(v any, tool models.ToolType) Content {
	parsed := DeepParse(v)

	if obj, ok := parsed.(map[string]any); ok {
		// Правило 1: нужные поля прямо на верхнем уровне.
		if c, ok := extractDirect(obj, tool); ok {
			return c
		}

		// Правило 2: полезная нагрузка под известной обёрткой,
		// сама обёртка может быть ещё одной JSON-строкой.
		for _, key := range wrapperKeys {
			inner, ok := obj[key]
			if !ok {
				continue
			}
			if m, ok := DeepParse(inner).(map[string]any); ok {
				if c, ok := extractDirect(m, tool); ok {
					return c
				}
			}
		}
		if m, ok := pinDataPayload(obj); ok {
			if c, ok := extractDirect(m, tool); ok {
				return c
			}
		}

		// Правило 3 (только подписи): платформы лежат на верхнем уровне.
		if tool == models.ToolSocialCaptions {
			if caps, ok := collectPlatforms(obj); ok {
				return caps
			}
		}

		// Историческая форма блога: поле content с обычным текстом.
		if tool == models.ToolBlogGenerator {
			if s, ok := obj["content"].(string); ok {
				return RawContent{Content: s, IsHTML: false}
			}
		}
	}

	return fallback(parsed)
}

// extractDirect применяет правило прямого совпадения полей для инструмента.
func extractDirect(obj map[string]any, tool models.ToolType) (Content, bool) {
	switch tool {
	case models.ToolBlogGenerator:
		return extractBlog(obj)
	case models.ToolSocialCaptions:
		return extractCaptions(obj)
	case models.ToolEmailCampaigns:
		return extractEmailCampaign(obj)
	case models.ToolProductDescriptions:
		return extractProductDescription(obj)
	}
	return nil, false
}

func extractBlog(obj map[string]any) (Content, bool) {
	title, okT := obj["blogTitle"].(string)
	content, okC := obj["blogContent"].(string)
	if okT && okC {
		return BlogContent{Title: title, Content: content, IsHTML: true}, true
	}
	return nil, false
}

func extractCaptions(obj map[string]any) (Content, bool) {
	raw, ok := obj["captions"].(map[string]any)
	if !ok {
		return nil, false
	}
	caps := Captions{}
	for platform, v := range raw {
		if s, ok := v.(string); ok {
			caps[platform] = s
		}
	}
	if len(caps) == 0 {
		return nil, false
	}
	return caps, true
}

func extractEmailCampaign(obj map[string]any) (Content, bool) {
	if _, ok := obj["campaign"].([]any); !ok {
		return nil, false
	}
	var campaign EmailCampaign
	if !remarshal(obj, &campaign) || len(campaign.Campaign) == 0 {
		return nil, false
	}
	for i := range campaign.Campaign {
		if campaign.Campaign[i].Day == 0 {
			campaign.Campaign[i].Day = i + 1
		}
	}
	return campaign, true
}

func extractProductDescription(obj map[string]any) (Content, bool) {
	// Достаточно одного из текстовых полей схемы, остальные получают
	// значения по умолчанию — результат всегда полностью заполнен.
	if !hasAnyKey(obj, "headline", "tagline", "shortDescription", "fullDescription") {
		return nil, false
	}
	var desc ProductDescription
	if !remarshal(obj, &desc) {
		return nil, false
	}
	if desc.KeyFeatures == nil {
		desc.KeyFeatures = []KeyFeature{}
	}
	if desc.Benefits == nil {
		desc.Benefits = []string{}
	}
	if desc.SEOKeywords == nil {
		desc.SEOKeywords = []string{}
	}
	return desc, true
}

// collectPlatforms собирает все платформы, найденные на верхнем уровне объекта.
func collectPlatforms(obj map[string]any) (Captions, bool) {
	caps := Captions{}
	for _, platform := range platformKeys {
		if s, ok := obj[platform].(string); ok && s != "" {
			caps[platform] = s
		}
	}
	if len(caps) == 0 {
		return nil, false
	}
	return caps, true
}

// pinDataPayload достаёт полезную нагрузку из структуры pinData
// workflow-движка: pinData.<имя workflow>.json.
func pinDataPayload(obj map[string]any) (map[string]any, bool) {
	pin, ok := obj["pinData"].(map[string]any)
	if !ok {
		return nil, false
	}
	for _, node := range pin {
		nodeObj, ok := node.(map[string]any)
		if !ok {
			continue
		}
		if m, ok := DeepParse(nodeObj["json"]).(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

// fallback оборачивает нераспознанный ответ в неструктурированный текст.
func fallback(v any) Content {
	if s, ok := v.(string); ok {
		return RawContent{Content: s, IsHTML: false}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return RawContent{Content: "", IsHTML: false}
	}
	return RawContent{Content: string(b), IsHTML: false}
}

// remarshal перекладывает map в структуру через JSON.
func remarshal(src any, dst any) bool {
	b, err := json.Marshal(src)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, dst) == nil
}

func hasAnyKey(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}
