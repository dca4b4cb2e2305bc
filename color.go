package flateralus

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses the color strings accepted by color controls: "#rgb",
// "#rgba", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)", "rgba(r, g, b, a)" and CSS
// color names. Channels of rgb() are 0-255, the alpha of rgba() is 0-1.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "":
		return color.NRGBA{}, fmt.Errorf("parse color: empty string")
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseFunctional(s)
	case s == "transparent":
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("parse color: unknown color %q", s)
}

// FormatHex renders c as "#rrggbb", dropping alpha.
func FormatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func parseHex(s string) (color.NRGBA, error) {
	hex := s[1:]
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("parse color: bad hex length in %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color: %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunctional(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("parse color: unterminated %q", s)
	}
	fn := s[:open]
	parts := strings.Split(s[open+1:len(s)-1], ",")
	want := 3
	if fn == "rgba" {
		want = 4
	}
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("parse color: %s() takes %d components, got %d", fn, want, len(parts))
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) {
			return color.NRGBA{}, fmt.Errorf("parse color: bad component %q in %q", p, s)
		}
		limit := 255.0
		if i == 3 {
			limit = 1
		}
		if v < 0 || v > limit {
			return color.NRGBA{}, fmt.Errorf("parse color: component %q out of range in %q", p, s)
		}
		ch[i] = v
	}
	return color.NRGBA{
		R: uint8(math.Round(ch[0])),
		G: uint8(math.Round(ch[1])),
		B: uint8(math.Round(ch[2])),
		A: uint8(math.Round(ch[3] * 255)),
	}, nil
}
