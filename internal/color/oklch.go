package color

import "math"

// Brighten raises the OKLCH lightness of c by amount, keeping hue and chroma.
// A negative amount darkens. The result is clamped to the sRGB gamut.
func Brighten(c Color, amount float64) Color {
	l, chroma, hue := RGBToOKLCH(c)
	return OKLCHToRGB(clamp01(l+amount), chroma, hue)
}

// Darken lowers the OKLCH lightness of c by amount.
func Darken(c Color, amount float64) Color {
	return Brighten(c, -amount)
}

// RGBToOKLCH converts an sRGB Color to OKLCH components.
// L is lightness [0, 1], chroma is colorfulness [0, ~0.37], hue is in degrees [0, 360).
func RGBToOKLCH(c Color) (l, chroma, hue float64) {
	lr := srgbToLinear(float64(c.R) / 255.0)
	lg := srgbToLinear(float64(c.G) / 255.0)
	lb := srgbToLinear(float64(c.B) / 255.0)

	L, a, b := linearRGBToOKLAB(lr, lg, lb)

	chroma = math.Sqrt(a*a + b*b)
	hue = math.Atan2(b, a) * (180.0 / math.Pi)
	if hue < 0 {
		hue += 360.0
	}

	return L, chroma, hue
}

// OKLCHToRGB converts OKLCH components to an sRGB Color.
func OKLCHToRGB(l, chroma, hue float64) Color {
	hRad := hue * (math.Pi / 180.0)
	lr, lg, lb := oklabToLinearRGB(l, chroma*math.Cos(hRad), chroma*math.Sin(hRad))

	return Color{
		R: toByte(linearToSRGB(clamp01(lr))),
		G: toByte(linearToSRGB(clamp01(lg))),
		B: toByte(linearToSRGB(clamp01(lb))),
	}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255.0))
}

func srgbToLinear(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float64) float64 {
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

func linearRGBToOKLAB(r, g, b float64) (float64, float64, float64) {
	lp := math.Cbrt(0.4122214708*r + 0.5363325363*g + 0.0514459929*b)
	mp := math.Cbrt(0.2119034982*r + 0.6806995451*g + 0.1073969566*b)
	sp := math.Cbrt(0.0883024619*r + 0.2817188376*g + 0.6299787005*b)

	return 0.2104542553*lp + 0.7936177850*mp - 0.0040720468*sp,
		1.9779984951*lp - 2.4285922050*mp + 0.4505937099*sp,
		0.0259040371*lp + 0.7827717662*mp - 0.8086757660*sp
}

func oklabToLinearRGB(L, a, b float64) (float64, float64, float64) {
	lp := L + 0.3963377774*a + 0.2158037573*b
	mp := L - 0.1055613458*a - 0.0638541728*b
	sp := L - 0.0894841775*a - 1.2914855480*b

	l, m, s := lp*lp*lp, mp*mp*mp, sp*sp*sp

	return +4.0767416621*l - 3.3077115913*m + 0.2309699292*s,
		-1.2684380046*l + 2.6097574011*m - 0.3413193965*s,
		-0.0041960863*l - 0.7034186147*m + 1.7076147010*s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
