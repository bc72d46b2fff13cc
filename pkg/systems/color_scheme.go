package systems

import (
	"math"
	"math/rand/v2"
)

// ColorScheme is the palette a firework burst draws its particle colors from.
// One scheme is chosen per burst.
type ColorScheme int

const (
	ColorSchemeMulti ColorScheme = iota
	ColorSchemeRed
	ColorSchemeGold
	ColorSchemeBlue
	ColorSchemeGreen
	ColorSchemePurple
	ColorSchemeWhite

	colorSchemeCount
)

// String returns the scheme name.
func (cs ColorScheme) String() string {
	switch cs {
	case ColorSchemeMulti:
		return "multi"
	case ColorSchemeRed:
		return "red"
	case ColorSchemeGold:
		return "gold"
	case ColorSchemeBlue:
		return "blue"
	case ColorSchemeGreen:
		return "green"
	case ColorSchemePurple:
		return "purple"
	case ColorSchemeWhite:
		return "white"
	default:
		return "unknown"
	}
}

// RandomColorScheme picks one of the seven schemes uniformly.
func RandomColorScheme(rng *rand.Rand) ColorScheme {
	return ColorScheme(rng.IntN(int(colorSchemeCount)))
}

// Sample draws one particle color (RGB in [0,1]) from the scheme.
func (cs ColorScheme) Sample(rng *rand.Rand) (r, g, b float32) {
	switch cs {
	case ColorSchemeMulti:
		return hslToRGB(rng.Float64(), 1, 0.6)
	case ColorSchemeRed:
		return 1, rng.Float32() * 0.3, rng.Float32() * 0.1
	case ColorSchemeGold:
		return 1, 0.8 + rng.Float32()*0.2, rng.Float32() * 0.2
	case ColorSchemeBlue:
		return 0.2, 0.5 + rng.Float32()*0.3, 1
	case ColorSchemeGreen:
		return 0.2, 1, rng.Float32() * 0.3
	case ColorSchemePurple:
		return 0.8, 0.2, 1
	default:
		return 1, 1, 1
	}
}

// hslToRGB converts hue/saturation/lightness in [0,1] to RGB.
func hslToRGB(h, s, l float64) (r, g, b float32) {
	if s == 0 {
		return float32(l), float32(l), float32(l)
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return float32(hueToChannel(p, q, h+1.0/3)),
		float32(hueToChannel(p, q, h)),
		float32(hueToChannel(p, q, h-1.0/3))
}

func hueToChannel(p, q, t float64) float64 {
	t -= math.Floor(t)
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*6*(2.0/3-t)
	default:
		return p
	}
}
