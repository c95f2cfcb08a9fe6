package course

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-CourseEngine/internal/domain"
)

// intervalKey ключ элемента price_range с меткой длительности ("1h 30m")
const intervalKey = "intervalo"

// ParseDurationLabel переводит метку длительности тарифа ("1h", "1h 30m", "45m", "90min") в time.Duration
func ParseDurationLabel(label string) (time.Duration, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "min", "m")
	if normalized == "" {
		return 0, fmt.Errorf("%w: empty duration label", ErrInvalidPriceRange)
	}

	d, err := time.ParseDuration(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: duration label %q: %v", ErrInvalidPriceRange, label, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: duration label %q is not positive", ErrInvalidPriceRange, label)
	}
	return d, nil
}

// parsePriceRange разбирает price_range курса:
// [{"intervalo": "1h", "1": 30, "2": "40.00"}, ...]
// Ключи элемента кроме "intervalo" - размер группы, значения - цена (число или строка).
// Пустые значения пропускаются: для такого размера группы цена не задана.
func parsePriceRange(raw []byte) ([]domain.PriceTier, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPriceRange, err)
	}

	tiers := make([]domain.PriceTier, 0, len(rows))
	for _, row := range rows {
		rawLabel, ok := row[intervalKey]
		if !ok {
			return nil, fmt.Errorf("%w: tier without %q", ErrInvalidPriceRange, intervalKey)
		}

		var label string
		if err := json.Unmarshal(rawLabel, &label); err != nil {
			return nil, fmt.Errorf("%w: tier label: %v", ErrInvalidPriceRange, err)
		}

		duration, err := ParseDurationLabel(label)
		if err != nil {
			return nil, err
		}

		tier := domain.PriceTier{Duration: duration, Prices: make(map[int]float64)}
		for key, value := range row {
			if key == intervalKey {
				continue
			}
			groupSize, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil || groupSize <= 0 {
				continue
			}

			price, defined, err := parsePrice(value)
			if err != nil {
				return nil, fmt.Errorf("%w: tier %q group %d: %v", ErrInvalidPriceRange, label, groupSize, err)
			}
			if defined {
				tier.Prices[groupSize] = price
			}
		}

		tiers = append(tiers, tier)
	}

	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].Duration < tiers[j].Duration })

	return tiers, nil
}

func parsePrice(raw json.RawMessage) (float64, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, nil
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, true, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, false, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false, nil
	}

	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, err
	}
	return number, true, nil
}

type discountRow struct {
	Dates      int     `json:"dates"`
	Percentage float64 `json:"percentage"`
}

// parseDiscounts разбирает скидки гибкого коллективного курса: [{"dates": 3, "percentage": 10}, ...]
func parseDiscounts(raw []byte) ([]domain.CollectiveDiscount, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var rows []discountRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDiscounts, err)
	}

	discounts := make([]domain.CollectiveDiscount, 0, len(rows))
	for _, row := range rows {
		if row.Dates <= 0 || row.Percentage < 0 || row.Percentage > 100 {
			return nil, fmt.Errorf("%w: dates=%d percentage=%.2f", ErrInvalidDiscounts, row.Dates, row.Percentage)
		}
		discounts = append(discounts, domain.CollectiveDiscount{Dates: row.Dates, Percentage: row.Percentage})
	}

	return discounts, nil
}
