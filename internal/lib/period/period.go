// Package period содержит вспомогательные функции расчёта месячного
// расчётного окна для счётчиков использования.
package period

import (
	"time"
)

// Current возвращает границы календарного месяца, в который попадает now:
// начало — первое число месяца 00:00 UTC, конец — первое число
// следующего месяца.
func Current(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, end
}

// Contains сообщает, попадает ли момент t в окно [start, end).
func Contains(start, end, t time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
