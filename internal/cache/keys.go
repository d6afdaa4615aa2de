package cache

import "strconv"

// KeyStats ключ сводной статистики панели администратора.
const KeyStats = "admin:stats"

// ProductKey ключ продукта вместе с планами.
func ProductKey(id int) string {
	return "product:" + strconv.Itoa(id)
}
