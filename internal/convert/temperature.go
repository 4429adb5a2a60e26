package convert

const (
	celsius    = "Celsius"
	fahrenheit = "Fahrenheit"
	kelvin     = "Kelvin"
)

func temperature(v float64, from, to string) float64 {
	switch {
	case from == celsius && to == fahrenheit:
		return v*9/5 + 32
	case from == celsius && to == kelvin:
		return v + 273.15
	case from == fahrenheit && to == celsius:
		return (v - 32) * 5 / 9
	case from == fahrenheit && to == kelvin:
		return (v-32)*5/9 + 273.15
	case from == kelvin && to == celsius:
		return v - 273.15
	case from == kelvin && to == fahrenheit:
		return (v-273.15)*9/5 + 32
	default:
		return v
	}
}
