package utils

import "time"

// DateLayout формат дат YYYY-MM-DD
const DateLayout = "2006-01-02"

// DaysInMonth возвращает количество дней в месяце
func DaysInMonth(year int, month time.Month) int {
	// нулевой день следующего месяца = последний день текущего
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths прибавляет n календарных месяцев. Если в целевом месяце нет
// исходного числа (31 января + 1 месяц), берется последний день целевого месяца.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	target := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := DaysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}
