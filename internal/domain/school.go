package domain

// SchoolSettings настройки школы, влияющие на расчёт цены
type SchoolSettings struct {
	SchoolID                     int64
	CancellationInsurancePercent float64
	Currency                     string
}

// InsuranceRate возвращает ставку страховки отмены в долях (10% -> 0.10)
func (s *SchoolSettings) InsuranceRate() float64 {
	return s.CancellationInsurancePercent / 100
}
