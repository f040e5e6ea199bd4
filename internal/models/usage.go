package models

import "time"

// ToolUsage описывает строку таблицы tool_usage: месячный счётчик генераций
// пользователя по одному инструменту. Изменяется только атомарной функцией
// increment_tool_usage на стороне базы, generation_count никогда не
// превышает monthly_limit.
type ToolUsage struct {
	UserUID         string    // UID пользователя
	ToolType        ToolType  // Инструмент
	GenerationCount int       // Использовано генераций в текущем периоде
	MonthlyLimit    int       // Месячный лимит генераций
	PeriodStart     time.Time // Начало расчётного периода
	PeriodEnd       time.Time // Конец расчётного периода
}

// UsageStats — срез счётчика для ответа API.
type UsageStats struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// Stats пересчитывает счётчик в UsageStats.
func (u *ToolUsage) Stats() UsageStats {
	return UsageStats{
		Used:      u.GenerationCount,
		Limit:     u.MonthlyLimit,
		Remaining: u.MonthlyLimit - u.GenerationCount,
	}
}
