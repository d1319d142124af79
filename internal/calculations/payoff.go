package calculations

import (
	"strconv"
	"strings"
	"time"

	"github.com/cloud-ru/mcp-loan-planner-go/pkg/utils"
)

// nowFunc подменяется в тестах
var nowFunc = time.Now

var nativeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	utils.DateLayout,
}

// PayoffDate возвращает дату последнего платежа: начало + months календарных месяцев
func PayoffDate(startDate time.Time, months int) time.Time {
	return utils.AddMonths(startDate, months)
}

// PayoffDateString — то же для строковой даты. Никогда не завершается ошибкой:
// нераспознанная дата заменяется текущей.
func PayoffDateString(startDate string, months int) string {
	return FormatDate(PayoffDate(ResolveDate(startDate), months))
}

// ResolveDate разбирает дату: стандартные форматы, затем строгий YYYY-MM-DD
// в начале строки, затем текущая дата.
func ResolveDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)

	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOnly(t)
		}
	}

	if t, ok := parseISODate(raw); ok {
		return t
	}

	return dateOnly(nowFunc())
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(utils.DateLayout)
}

func parseISODate(raw string) (time.Time, bool) {
	if len(raw) < 10 {
		return time.Time{}, false
	}
	if len(raw) > 10 && raw[10] != 'T' && raw[10] != ' ' {
		return time.Time{}, false
	}

	parts := strings.Split(raw[:10], "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return time.Time{}, false
	}
	for _, part := range parts {
		if strings.Trim(part, "0123456789") != "" {
			return time.Time{}, false
		}
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > utils.DaysInMonth(year, time.Month(month)) {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
