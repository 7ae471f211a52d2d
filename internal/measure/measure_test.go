package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed Measurement

func (f fixed) Measure() Measurement { return Measurement(f) }

func TestMeasureDispatch(t *testing.T) {
	m, ok := Measure(fixed{Area: 12, Perimeter: 14})
	assert.True(t, ok)
	assert.Equal(t, Measurement{Area: 12, Perimeter: 14}, m)

	_, ok = Measure("not a shape")
	assert.False(t, ok)

	_, ok = Measure(nil)
	assert.False(t, ok)
}

func TestFormatArea(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0 cm²"},
		{9999.9, "9999.9 cm²"},
		{10000, "1.00 m²"},
		{20000, "2.00 m²"},
		{7853.981, "7854.0 cm²"},
		{123456, "12.35 m²"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatArea(tt.in), "FormatArea(%v)", tt.in)
	}
}

func TestFormatLength(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{99.9, "99.9 cm"},
		{100, "1.00 m"},
		{314.159, "3.14 m"},
		{12.34, "12.3 cm"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLength(tt.in), "FormatLength(%v)", tt.in)
	}
}

func TestFormatted(t *testing.T) {
	round := Measurement{Area: 7853.98, Perimeter: 314.16, Circumference: true}

	assert.Equal(t, Formatted{
		Area:           "7854.0 cm²",
		Perimeter:      "3.14 m",
		PerimeterLabel: "Circumference",
	}, round.Format())
	assert.Equal(t, "Perimeter", Measurement{}.PerimeterLabel())
}
