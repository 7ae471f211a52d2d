// Package measure computes and formats areas and outline lengths of scene
// items. Shapes own their formulas through the Measurable capability; this
// package only dispatches and formats.
package measure

import "fmt"

// Measurement is the area and outline length of a shape in scene units.
type Measurement struct {
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
	// Circumference marks round shapes whose perimeter is a circumference.
	Circumference bool `json:"circumference,omitempty"`
}

// Measurable is implemented by every shape kind that has an area.
type Measurable interface {
	Measure() Measurement
}

// Measure returns the measurement of item, or false when the item's kind is
// not measurable.
func Measure(item any) (Measurement, bool) {
	m, ok := item.(Measurable)
	if !ok {
		return Measurement{}, false
	}
	return m.Measure(), true
}

const (
	cm2PerM2 = 10000.0
	cmPerM   = 100.0
)

// FormatArea renders an area given in cm². Values of at least one square
// meter switch to m² with two decimals.
func FormatArea(cm2 float64) string {
	if cm2 >= cm2PerM2 {
		return fmt.Sprintf("%.2f m²", cm2/cm2PerM2)
	}
	return fmt.Sprintf("%.1f cm²", cm2)
}

// FormatLength renders a length given in cm. Values of at least one meter
// switch to m with two decimals.
func FormatLength(cm float64) string {
	if cm >= cmPerM {
		return fmt.Sprintf("%.2f m", cm/cmPerM)
	}
	return fmt.Sprintf("%.1f cm", cm)
}

// PerimeterLabel names the outline length for display.
func (m Measurement) PerimeterLabel() string {
	if m.Circumference {
		return "Circumference"
	}
	return "Perimeter"
}

// Formatted is a display-ready measurement.
type Formatted struct {
	Area           string `json:"area"`
	Perimeter      string `json:"perimeter"`
	PerimeterLabel string `json:"perimeterLabel"`
}

// Format renders both values with FormatArea and FormatLength.
func (m Measurement) Format() Formatted {
	return Formatted{
		Area:           FormatArea(m.Area),
		Perimeter:      FormatLength(m.Perimeter),
		PerimeterLabel: m.PerimeterLabel(),
	}
}
