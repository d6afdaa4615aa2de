// Package interval вычисляет календарные даты окончания подписок
// по интервалу тарифного плана.
package interval

import (
	"errors"
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// ErrUnknownInterval возвращается для интервала, которого нет в перечислении.
var ErrUnknownInterval = errors.New("unknown plan interval")

// End возвращает дату окончания периода, начинающегося в start.
// Месяц и год считаются календарно через time.AddDate.
func End(start time.Time, i models.PlanInterval) (time.Time, error) {
	switch i {
	case models.IntervalMonth:
		return start.AddDate(0, 1, 0), nil
	case models.IntervalYear:
		return start.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, ErrUnknownInterval
	}
}

// Months число месяцев в интервале.
func Months(i models.PlanInterval) int {
	switch i {
	case models.IntervalYear:
		return 12
	case models.IntervalMonth:
		return 1
	default:
		return 0
	}
}

// EndsWithin сообщает, заканчивается ли период в окне (now, now+window].
func EndsWithin(end, now time.Time, window time.Duration) bool {
	return end.After(now) && !end.After(now.Add(window))
}
