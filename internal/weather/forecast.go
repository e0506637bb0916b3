package weather

import "time"

const dailyDateLayout = "2006-01-02"

// DeriveForecast builds one forecast entry per daily index from the parallel
// arrays returned by the API. The output always has exactly len(times)
// entries, in input order: a date string that fails to parse is replaced by
// a synthetic date of now + index days rather than failing the whole
// derivation, and a parallel array that is unexpectedly short simply yields
// zero values for the missing fields.
func DeriveForecast(now time.Time, times []string, maxTemps, minTemps []float64, codes []int) []ForecastDay {
	forecast := make([]ForecastDay, 0, len(times))

	for i, dateStr := range times {
		date, err := time.Parse(dailyDateLayout, dateStr)
		if err != nil {
			date = now.AddDate(0, 0, i)
		}

		day := ForecastDay{Date: date}
		if i < len(maxTemps) {
			day.MaxTemp = maxTemps[i]
		}
		if i < len(minTemps) {
			day.MinTemp = minTemps[i]
		}
		if i < len(codes) {
			day.Code = codes[i]
		}
		day.Condition = CodeToCondition(day.Code)

		forecast = append(forecast, day)
	}

	return forecast
}
