package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestConvert_RoundTripFactorCategories(t *testing.T) {
	for _, c := range []Category{Length, Weight} {
		for _, from := range Units(c) {
			for _, to := range Units(c) {
				for _, v := range []float64{0, 1, 2.5, 1234.5678} {
					there, err := Convert(v, from, to, c)
					require.NoError(t, err)
					back, err := Convert(there, to, from, c)
					require.NoError(t, err)
					assert.InDelta(t, v, back, tolerance*(1+v), "%s %s->%s->%s", c, from, to, from)
				}
			}
		}
	}
}

func TestConvert_TemperatureRoundTrip(t *testing.T) {
	for _, v := range []float64{-40, 0, 36.6, 100, 1000} {
		f, err := Convert(v, "Celsius", "Fahrenheit", Temperature)
		require.NoError(t, err)
		c, err := Convert(f, "Fahrenheit", "Celsius", Temperature)
		require.NoError(t, err)
		assert.InDelta(t, v, c, tolerance*1000)

		k, err := Convert(v, "Celsius", "Kelvin", Temperature)
		require.NoError(t, err)
		c, err = Convert(k, "Kelvin", "Celsius", Temperature)
		require.NoError(t, err)
		assert.InDelta(t, v, c, tolerance*1000)
	}
}

func TestConvert_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		category Category
		want     float64
	}{
		{"freezing point", 0, "Celsius", "Fahrenheit", Temperature, 32},
		{"boiling point in kelvin", 100, "Celsius", "Kelvin", Temperature, 373.15},
		{"fahrenheit to kelvin", 32, "Fahrenheit", "Kelvin", Temperature, 273.15},
		{"kelvin to fahrenheit", 273.15, "Kelvin", "Fahrenheit", Temperature, 32},
		{"kilometer to meter", 1, "kilometer", "meter", Length, 1000},
		{"meter to foot", 1, "meter", "foot", Length, 3.28084},
		{"pound to gram", 1, "pound", "gram", Weight, 1 / 0.00220462},
		{"kilogram to ounce", 1, "kilogram", "ounce", Weight, 0.035274 / 0.001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.value, tt.from, tt.to, tt.category)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestConvert_TemperatureFallbackIsIdentity(t *testing.T) {
	got, err := Convert(21.5, "Celsius", "Celsius", Temperature)
	require.NoError(t, err)
	assert.Equal(t, 21.5, got)

	got, err = Convert(21.5, "Rankine", "Celsius", Temperature)
	require.NoError(t, err)
	assert.Equal(t, 21.5, got)
}

func TestConvert_UnknownUnit(t *testing.T) {
	_, err := Convert(1, "meter", "furlong", Length)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	_, err = Convert(1, "stone", "gram", Weight)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	// Units from another category are not in the table either.
	_, err = Convert(1, "gram", "meter", Length)
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestConvert_UnknownCategory(t *testing.T) {
	_, err := Convert(1, "meter", "meter", Category("Volume"))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestConvert_NoLowerBound(t *testing.T) {
	got, err := Convert(-2, "kilometer", "meter", Length)
	require.NoError(t, err)
	assert.InDelta(t, -2000, got, 1e-9)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("length")
	require.NoError(t, err)
	assert.Equal(t, Length, c)

	c, err = ParseCategory(" Temperature ")
	require.NoError(t, err)
	assert.Equal(t, Temperature, c)

	_, err = ParseCategory("volume")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestUnits_ReturnsCopy(t *testing.T) {
	list := Units(Length)
	require.Equal(t, []string{"meter", "kilometer", "mile", "foot"}, list)
	list[0] = "parsec"
	assert.Equal(t, "meter", Units(Length)[0])
}

func TestCategoryOf(t *testing.T) {
	c, ok := CategoryOf("ounce")
	require.True(t, ok)
	assert.Equal(t, Weight, c)

	c, ok = CategoryOf("Kelvin")
	require.True(t, ok)
	assert.Equal(t, Temperature, c)

	_, ok = CategoryOf("lightyear")
	assert.False(t, ok)
}

func TestRequest_Validate(t *testing.T) {
	assert.NoError(t, Request{Value: 3, From: "mile", To: "meter", Category: Length}.Validate())
	assert.Error(t, Request{Value: -1, From: "mile", To: "meter", Category: Length}.Validate())
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Error(t, Request{Value: v, From: "kilometer", To: "meter", Category: Length}.Validate(), v)
	}
	assert.ErrorIs(t, Request{Value: 1, From: "Rankine", To: "Kelvin", Category: Temperature}.Validate(), ErrUnknownUnit)
	assert.ErrorIs(t, Request{Value: 1, From: "meter", To: "meter", Category: "Time"}.Validate(), ErrUnknownCategory)
}
