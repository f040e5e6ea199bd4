// Package models содержит доменные структуры сервиса генерации контента:
// типы инструментов, подписки, счётчики использования,
// а также вспомогательные типы для работы с данными из JSON-запросов.
package models

import "fmt"

// ToolType идентифицирует инструмент генерации. Значения стабильны:
// используются и как параметр API, и как ключ в таблице tool_usage.
type ToolType string

const (
	// ToolBlogGenerator — генератор статей для блога
	ToolBlogGenerator ToolType = "blog_generator"
	// ToolSocialCaptions — генератор подписей для соцсетей
	ToolSocialCaptions ToolType = "social_captions"
	// ToolEmailCampaigns — генератор email-кампаний
	ToolEmailCampaigns ToolType = "email_campaigns"
	// ToolProductDescriptions — генератор описаний товаров
	ToolProductDescriptions ToolType = "product_descriptions"
)

// ValidTools перечисляет все поддерживаемые инструменты.
var ValidTools = []ToolType{
	ToolBlogGenerator,
	ToolSocialCaptions,
	ToolEmailCampaigns,
	ToolProductDescriptions,
}

// DefaultMonthlyLimits задаёт месячный лимит генераций по инструментам
// для нового счётчика использования.
var DefaultMonthlyLimits = map[ToolType]int{
	ToolBlogGenerator:       30,
	ToolSocialCaptions:      100,
	ToolEmailCampaigns:      30,
	ToolProductDescriptions: 50,
}

// ParseToolType преобразует строку в ToolType.
// Неизвестный инструмент — ошибка валидации на стороне обработчика,
// до шлюза использования такое значение не доходит.
func ParseToolType(s string) (ToolType, error) {
	for _, t := range ValidTools {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool type: %q", s)
}
