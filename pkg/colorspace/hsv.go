// Package colorspace converts between RGB and HSV.
//
// RGB channels and HSV value share the same scale (0-255 for frame data),
// saturation is in [0,1] and hue is in degrees within [0,360).
package colorspace

import "math"

// sectors maps a hue sector to the (r, g, b) permutation of v, w, q, t.
var sectors = [6]func(v, w, q, t float64) (float64, float64, float64){
	func(v, w, q, t float64) (float64, float64, float64) { return v, t, w },
	func(v, w, q, t float64) (float64, float64, float64) { return q, v, w },
	func(v, w, q, t float64) (float64, float64, float64) { return w, v, t },
	func(v, w, q, t float64) (float64, float64, float64) { return w, q, v },
	func(v, w, q, t float64) (float64, float64, float64) { return t, w, v },
	func(v, w, q, t float64) (float64, float64, float64) { return v, w, q },
}

func RGBToHSV(r, g, b float64) (h, s, v float64) {
	max, min := r, r
	maxChannel := 'r'

	if g > max {
		max, maxChannel = g, 'g'
	}
	if b > max {
		max, maxChannel = b, 'b'
	}
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}

	if max != 0 {
		s = (max - min) / max
	}

	// hue carries no information for greys
	if s == 0 {
		return 0, s, max
	}

	delta := max - min
	switch maxChannel {
	case 'r':
		h = (g - b) / delta
	case 'g':
		h = 2 + (b-r)/delta
	default:
		h = 4 + (r-g)/delta
	}

	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, max
}

func HSVToRGB(h, s, v float64) (r, g, b float64) {
	if s == 0 {
		return v, v, v
	}

	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 60

	i := math.Floor(h)
	f := h - i
	w := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	return sectors[int(i)%6](v, w, q, t)
}
