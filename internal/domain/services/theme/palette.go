package theme

import (
	"fmt"
	"math"

	"github.com/deckforge/deckforge/internal/domain/services/designmath"
)

// shadeSteps is the standard tint/shade ramp used across the design system.
var shadeSteps = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900}

// DeriveRamp produces the 50..900 tint/shade ramp for a base colour by adjusting HSL
// lightness: lighter steps (50-400) interpolate toward white, darker steps (600-900)
// interpolate toward black, and 500 is the base colour itself.
func DeriveRamp(baseHex string) (map[int]string, error) {
	r, g, b, err := designmath.ParseHexColor(baseHex)
	if err != nil {
		return nil, err
	}
	h, s, l := rgbToHSL(r, g, b)

	ramp := make(map[int]string, len(shadeSteps))
	for _, step := range shadeSteps {
		lightness := lightnessForStep(step, l)
		nr, ng, nb := hslToRGB(h, s, lightness)
		ramp[step] = fmt.Sprintf("#%02X%02X%02X", nr, ng, nb)
	}
	return ramp, nil
}

// lightnessForStep maps a shade step to a target lightness, with 500 anchored at the
// base colour's own lightness and the rest interpolated evenly toward the extremes.
func lightnessForStep(step int, baseL float64) float64 {
	if step == 500 {
		return baseL
	}
	if step < 500 {
		// 50 -> near white (0.97), 400 -> close to base.
		t := float64(500-step) / 450.0
		return baseL + (0.97-baseL)*t
	}
	// 600 -> close to base, 900 -> near black (0.08).
	t := float64(step-500) / 400.0
	return baseL + (0.08-baseL)*t
}

func rgbToHSL(r, g, b uint8) (h, s, l float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l // achromatic
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	case bf:
		h = (rf-gf)/d + 4
	}
	h /= 6
	return h, s, l
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = uint8(math.Round(hueToRGB(p, q, h+1.0/3) * 255))
	g = uint8(math.Round(hueToRGB(p, q, h) * 255))
	b = uint8(math.Round(hueToRGB(p, q, h-1.0/3) * 255))
	return r, g, b
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// defaultSemantics are the deterministic fallback semantic colours used when a palette
// doesn't specify them explicitly.
var defaultSemantics = struct {
	Success, Warning, Error, Info string
}{
	Success: "#2E7D32",
	Warning: "#F9A825",
	Error:   "#C62828",
	Info:    "#1565C0",
}
