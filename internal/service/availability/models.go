package availability

import "time"

// CartItem строка корзины для предварительной проверки мест
type CartItem struct {
	SubgroupID int64
	Date       time.Time
	Count      int // сколько мест нужно, 0 трактуется как 1
}

// CartLineResult результат проверки одной строки корзины
type CartLineResult struct {
	SubgroupID int64
	Date       time.Time
	Requested  int
	Available  bool
	Remaining  int // UnlimitedSlots для неограниченных подгрупп
	Unlimited  bool
}

// CartResult результат проверки корзины
type CartResult struct {
	IsAvailable bool
	Details     []CartLineResult
}
