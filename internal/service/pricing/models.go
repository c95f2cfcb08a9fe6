package pricing

import "github.com/m04kA/SMC-CourseEngine/internal/domain"

// LinePrice цена одной позиции бронирования.
// Для коллективного курса позиция покрывает все активные строки клиента по курсу,
// для приватного курса позиция равна одной строке.
type LinePrice struct {
	BookingUserID  int64
	ClientID       int64
	CourseID       int64
	CourseType     domain.CourseType
	IsFlexible     bool
	CoveredLineIDs []int64

	Dates              int     // коллективный гибкий: количество различных дат
	DiscountPercentage float64 // коллективный гибкий: применённая скидка
	Duration           string  // приватный гибкий: длительность занятия
	GroupSize          int     // приватный гибкий: размер группы занятия
	ConfigurationGap   bool    // приватный гибкий: цена для длительности и размера группы не задана
	Cancelled          bool    // строка отменена, все суммы нулевые

	PriceWithoutExtras         float64
	ExtrasPrice                float64
	CancellationInsurancePrice float64
	TotalPrice                 float64
	Currency                   string

	extrasByLine map[int64]float64
}

// LineAmounts распределяет цену позиции (без страховки) по покрытым строкам:
// базовая цена делится поровну (остаток от округления - на первую строку), доп. услуги - по строкам
func (p *LinePrice) LineAmounts() map[int64]float64 {
	amounts := make(map[int64]float64, len(p.CoveredLineIDs))
	if len(p.CoveredLineIDs) == 0 {
		return amounts
	}

	n := float64(len(p.CoveredLineIDs))
	share := roundMoney(p.PriceWithoutExtras / n)
	remainder := roundMoney(p.PriceWithoutExtras - share*n)

	for i, id := range p.CoveredLineIDs {
		amount := share + p.extrasByLine[id]
		if i == 0 {
			amount += remainder
		}
		amounts[id] = roundMoney(amount)
	}
	return amounts
}

// BookingInput всё, что нужно для расчёта итогов бронирования
type BookingInput struct {
	Booking       *domain.Booking
	Lines         []*domain.BookingUser
	Courses       map[int64]*domain.Course
	Extras        map[int64][]domain.BookingUserExtra // ID строки -> доп. услуги
	InsuranceRate float64                             // в долях (0.10 = 10%)
}

// BookingBreakdown итоги бронирования
type BookingBreakdown struct {
	BookingID int64
	Currency  string
	Lines     []LinePrice

	ActiveLines    int
	CancelledLines int

	PriceWithoutExtras         float64
	ExtrasPrice                float64
	CancellationInsurancePrice float64
	Subtotal                   float64 // до вычета скидок
	PriceReduction             float64
	DiscountCodeValue          float64
	TotalFinal                 float64
	ConfigurationGaps          int
}
