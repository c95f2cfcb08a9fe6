package pricing

import (
	"math"
	"sort"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// Calculator расчёт цен по уже загруженным данным, без обращений к БД
type Calculator struct {
	metrics Metrics
	logger  Logger
}

// NewCalculator создает калькулятор. metrics может быть nil
func NewCalculator(metrics Metrics, logger Logger) *Calculator {
	return &Calculator{metrics: metrics, logger: logger}
}

// PriceLine считает цену позиции, в которую входит строка line.
// Для неактивной строки возвращается нулевая цена с флагом Cancelled.
// siblings - строки того же бронирования (могут включать line), extras - доп. услуги по ID строки.
func (c *Calculator) PriceLine(
	line *domain.BookingUser,
	course *domain.Course,
	siblings []*domain.BookingUser,
	extras map[int64][]domain.BookingUserExtra,
	insuranceRate float64,
) LinePrice {
	price := LinePrice{
		BookingUserID: line.ID,
		ClientID:      line.ClientID,
		CourseID:      course.ID,
		CourseType:    course.CourseType,
		IsFlexible:    course.IsFlexible,
		Currency:      currencyOf(line, course),
		extrasByLine:  make(map[int64]float64),
	}

	// Отменённая строка не занимает место и не оплачивается
	if !line.IsActive() {
		price.Cancelled = true
		price.CoveredLineIDs = []int64{}
		return price
	}

	if course.IsCollective() {
		c.priceCollective(&price, line, course, siblings)
	} else {
		c.pricePrivate(&price, line, course, siblings)
	}

	for _, id := range price.CoveredLineIDs {
		sum := 0.0
		for _, extra := range extras[id] {
			sum += extra.Price
		}
		price.extrasByLine[id] = roundMoney(sum)
		price.ExtrasPrice += sum
	}

	price.PriceWithoutExtras = roundMoney(price.PriceWithoutExtras)
	price.ExtrasPrice = roundMoney(price.ExtrasPrice)
	price.CancellationInsurancePrice = roundMoney((price.PriceWithoutExtras + price.ExtrasPrice) * insuranceRate)
	price.TotalPrice = roundMoney(price.PriceWithoutExtras + price.ExtrasPrice + price.CancellationInsurancePrice)

	return price
}

// priceCollective цена коллективного курса считается один раз на клиента и курс:
// фиксированный - course.Price независимо от количества дней,
// гибкий - course.Price за каждую дату минус скидка по количеству дат
func (c *Calculator) priceCollective(price *LinePrice, line *domain.BookingUser, course *domain.Course, siblings []*domain.BookingUser) {
	covered := collectiveGroup(line, siblings)
	price.CoveredLineIDs = lineIDs(covered)
	price.BookingUserID = covered[0].ID

	if !course.IsFlexible {
		price.PriceWithoutExtras = course.Price
		return
	}

	dates := distinctDates(covered)
	price.Dates = dates
	base := course.Price * float64(dates)

	if discount, ok := course.BestCollectiveDiscount(dates); ok {
		price.DiscountPercentage = discount.Percentage
		base -= base * discount.Percentage / 100
	}
	price.PriceWithoutExtras = base
}

// pricePrivate приватный курс оплачивается за каждую строку;
// гибкий берёт цену из тарифной сетки по длительности и размеру группы занятия
func (c *Calculator) pricePrivate(price *LinePrice, line *domain.BookingUser, course *domain.Course, siblings []*domain.BookingUser) {
	price.CoveredLineIDs = []int64{line.ID}

	if !course.IsFlexible {
		price.PriceWithoutExtras = course.Price
		return
	}

	groupSize := privateGroupSize(line, siblings)
	price.GroupSize = groupSize

	duration, err := line.Duration()
	if err != nil {
		c.configGap(price, "PriceLine: booking_user=%d course=%d has invalid time range %s-%s: %v",
			line.ID, course.ID, line.HourStart, line.HourEnd, err)
		return
	}
	price.Duration = duration.String()

	tier, ok := course.FindPriceTier(duration)
	if !ok {
		c.configGap(price, "PriceLine: course=%d has no price tier for duration %s (booking_user=%d)",
			course.ID, duration, line.ID)
		return
	}

	amount, ok := tier.PriceFor(groupSize)
	if !ok {
		c.configGap(price, "PriceLine: course=%d tier %s has no price for group of %d (booking_user=%d)",
			course.ID, duration, groupSize, line.ID)
		return
	}

	price.PriceWithoutExtras = amount
}

func (c *Calculator) configGap(price *LinePrice, format string, v ...interface{}) {
	price.ConfigurationGap = true
	price.PriceWithoutExtras = 0
	c.logger.Warn(format, v...)
	if c.metrics != nil {
		c.metrics.PricingConfigGap()
	}
}

// PriceBooking считает итоги бронирования по активным строкам.
// Ваучеры в расчёте не участвуют: это способ оплаты, а не скидка.
func (c *Calculator) PriceBooking(in BookingInput) BookingBreakdown {
	breakdown := BookingBreakdown{
		Currency: domain.DefaultCurrency,
		Lines:    make([]LinePrice, 0),
	}
	if in.Booking != nil {
		breakdown.BookingID = in.Booking.ID
		if in.Booking.Currency != "" {
			breakdown.Currency = in.Booking.Currency
		}
	}

	rate := 0.0
	if in.Booking != nil && in.Booking.HasCancellationInsurance {
		rate = in.InsuranceRate
	}

	active := make([]*domain.BookingUser, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.IsActive() {
			active = append(active, line)
		} else {
			breakdown.CancelledLines++
		}
	}
	breakdown.ActiveLines = len(active)

	priced := make(map[int64]bool, len(active))
	for _, line := range active {
		if priced[line.ID] {
			continue
		}

		course, ok := in.Courses[line.CourseID]
		if !ok {
			c.logger.Error("PriceBooking: booking=%d line=%d references unknown course=%d",
				breakdown.BookingID, line.ID, line.CourseID)
			continue
		}

		price := c.PriceLine(line, course, active, in.Extras, rate)
		for _, id := range price.CoveredLineIDs {
			priced[id] = true
		}
		if price.ConfigurationGap {
			breakdown.ConfigurationGaps++
		}

		breakdown.PriceWithoutExtras += price.PriceWithoutExtras
		breakdown.ExtrasPrice += price.ExtrasPrice
		breakdown.CancellationInsurancePrice += price.CancellationInsurancePrice
		breakdown.Lines = append(breakdown.Lines, price)
	}

	breakdown.PriceWithoutExtras = roundMoney(breakdown.PriceWithoutExtras)
	breakdown.ExtrasPrice = roundMoney(breakdown.ExtrasPrice)
	breakdown.CancellationInsurancePrice = roundMoney(breakdown.CancellationInsurancePrice)
	breakdown.Subtotal = roundMoney(breakdown.PriceWithoutExtras + breakdown.ExtrasPrice + breakdown.CancellationInsurancePrice)

	if in.Booking != nil {
		if in.Booking.HasReduction || in.Booking.PriceReduction > 0 {
			breakdown.PriceReduction = roundMoney(in.Booking.PriceReduction)
		}
		breakdown.DiscountCodeValue = roundMoney(in.Booking.DiscountCodeValue)
	}

	total := breakdown.Subtotal - breakdown.PriceReduction - breakdown.DiscountCodeValue
	if total < 0 {
		total = 0
	}
	breakdown.TotalFinal = roundMoney(total)

	return breakdown
}

// collectiveGroup активные строки того же клиента по тому же курсу; line всегда первая
func collectiveGroup(line *domain.BookingUser, siblings []*domain.BookingUser) []*domain.BookingUser {
	group := []*domain.BookingUser{line}
	for _, s := range siblings {
		if s.ID == line.ID || !s.IsActive() {
			continue
		}
		if s.ClientID == line.ClientID && s.CourseID == line.CourseID && s.BookingID == line.BookingID {
			group = append(group, s)
		}
	}
	rest := group[1:]
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })
	return group
}

// privateGroupSize количество участников того же приватного занятия, включая line
func privateGroupSize(line *domain.BookingUser, siblings []*domain.BookingUser) int {
	size := 1
	for _, s := range siblings {
		if s.ID == line.ID || !s.IsActive() {
			continue
		}
		if line.SharesPrivateSlotWith(s) {
			size++
		}
	}
	return size
}

func distinctDates(lines []*domain.BookingUser) int {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		seen[l.Date.Format(domain.DateFormat)] = struct{}{}
	}
	return len(seen)
}

func lineIDs(lines []*domain.BookingUser) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	return ids
}

func currencyOf(line *domain.BookingUser, course *domain.Course) string {
	if line.Currency != "" {
		return line.Currency
	}
	if course.Currency != "" {
		return course.Currency
	}
	return domain.DefaultCurrency
}

// roundMoney округляет сумму до копеек
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
