package render

import (
	"github.com/lucasb-eyer/go-colorful"
)

const lutSize = 4096

// srgbLUT maps linear intensity in [0, 1] to 8-bit sRGB.
var srgbLUT = buildSRGBLUT()

func buildSRGBLUT() [lutSize]uint8 {
	var lut [lutSize]uint8
	for i := range lut {
		v := float64(i) / float64(lutSize-1)
		c := colorful.LinearRgb(v, v, v)
		lut[i] = uint8(c.R*255 + 0.5)
	}
	return lut
}

// encodeSRGB converts one linear channel to 8-bit sRGB, saturating above 1.
func encodeSRGB(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return srgbLUT[int(v*(lutSize-1)+0.5)]
}

// fillLinearRGBA converts linear rgb cells into opaque sRGB RGBA pixels in buf.
// Additive compositing can push channels past 1; they saturate.
func fillLinearRGBA(buf []byte, cells []float32) {
	n := len(cells) / 3
	for i := 0; i < n; i++ {
		src := i * 3
		dst := i * 4
		buf[dst+0] = encodeSRGB(cells[src])
		buf[dst+1] = encodeSRGB(cells[src+1])
		buf[dst+2] = encodeSRGB(cells[src+2])
		buf[dst+3] = 0xff
	}
}
