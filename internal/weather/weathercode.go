package weather

// Open-Meteo WMO weather-code conversion tables. Both functions are total:
// any unmapped code, negative or out of range, falls back to the clear-sky
// defaults and never produces an error or empty string.

// CodeToCondition maps an Open-Meteo weather code to a coarse condition.
func CodeToCondition(code int) Condition {
	switch code {
	case 0:
		return ConditionClear
	case 1, 2, 3:
		return ConditionClouds
	case 45, 48:
		return ConditionFog
	case 51, 53, 55, 56, 57:
		return ConditionDrizzle
	case 61, 63, 65, 66, 67:
		return ConditionRain
	case 71, 73, 75, 77:
		return ConditionSnow
	case 80, 81, 82:
		return ConditionRain
	case 85, 86:
		return ConditionSnow
	case 95, 96, 99:
		return ConditionStorm
	default:
		return ConditionClear
	}
}

// CodeToDescription maps an Open-Meteo weather code to a human-readable
// description string.
func CodeToDescription(code int) string {
	switch code {
	case 0:
		return "clear sky"
	case 1:
		return "mainly clear"
	case 2:
		return "partly cloudy"
	case 3:
		return "overcast"
	case 45, 48:
		return "fog"
	case 51:
		return "light drizzle"
	case 53:
		return "moderate drizzle"
	case 55:
		return "dense drizzle"
	case 61:
		return "slight rain"
	case 63:
		return "moderate rain"
	case 65:
		return "heavy rain"
	case 71:
		return "slight snow"
	case 73:
		return "moderate snow"
	case 75:
		return "heavy snow"
	case 80:
		return "rain showers"
	case 95:
		return "thunderstorm"
	default:
		return "clear sky"
	}
}

// IconForCondition maps a condition to its display glyph.
func IconForCondition(cond Condition) string {
	switch cond {
	case ConditionClear:
		return "☀️"
	case ConditionClouds:
		return "☁️"
	case ConditionRain:
		return "🌧️"
	case ConditionDrizzle:
		return "🌦️"
	case ConditionStorm:
		return "⛈️"
	case ConditionSnow:
		return "❄️"
	case ConditionFog:
		return "🌫️"
	default:
		return "☀️"
	}
}
