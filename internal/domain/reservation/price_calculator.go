package reservation

type PriceCalculator interface {
	Cost(hourlyRate Money, hours int) Money
}

// HourlyRateCalculator charges rate * hours with no tax, discount or rounding.
type HourlyRateCalculator struct{}

func NewHourlyRateCalculator() *HourlyRateCalculator {
	return &HourlyRateCalculator{}
}

func (pc *HourlyRateCalculator) Cost(hourlyRate Money, hours int) Money {
	return hourlyRate.Mul(int64(hours))
}
