package propconf

import (
	"fmt"
	"strconv"

	"github.com/reoring/propconf/scanner"
)

// FormatColor renders c as a (color-rgba r g b a) list.
func FormatColor(c Color) string {
	return "(color-rgba " + formatFloat(c.R) + " " + formatFloat(c.G) + " " +
		formatFloat(c.B) + " " + formatFloat(c.A) + ")"
}

// ParseColor parses (color-rgba r g b a) or (color-rgb r g b).
func ParseColor(s string) (Color, error) {
	sc := scanner.NewString(s, "")
	if tok := sc.Next(); tok.Kind != scanner.KindLeftParen {
		return Color{}, fmt.Errorf("color %q: expected '('", s)
	}
	c, err := scanColor(sc.Next)
	if err != nil {
		return Color{}, err
	}
	if tok := sc.Next(); tok.Kind != scanner.KindEOF {
		return Color{}, fmt.Errorf("color %q: trailing %s", s, tok.Kind)
	}
	return c, nil
}

// scanColor reads a color list whose '(' was already consumed, up to and
// including its ')'.
func scanColor(next func() scanner.Token) (Color, error) {
	head := next()
	if head.Kind != scanner.KindIdentifier && head.Kind != scanner.KindSymbol {
		return Color{}, fmt.Errorf("expected color-rgb or color-rgba, got %s", head.Kind)
	}
	var n int
	switch head.Text {
	case "color-rgb":
		n = 3
	case "color-rgba":
		n = 4
	default:
		return Color{}, fmt.Errorf("unknown color format %q", head.Text)
	}
	ch := [4]float64{0, 0, 0, 1}
	for i := 0; i < n; i++ {
		tok := next()
		if tok.Kind != scanner.KindFloat && tok.Kind != scanner.KindInt {
			return Color{}, fmt.Errorf("color channel %d: expected number, got %s", i+1, tok.Kind)
		}
		if tok.Float < 0 || tok.Float > 1 {
			return Color{}, fmt.Errorf("color channel %d: %s is outside [0, 1]", i+1, tok.Text)
		}
		ch[i] = tok.Float
	}
	if tok := next(); tok.Kind != scanner.KindRightParen {
		return Color{}, fmt.Errorf("color: expected ')', got %s", tok.Kind)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func validColor(c Color) bool {
	for _, v := range [4]float64{c.R, c.G, c.B, c.A} {
		if !(v >= 0 && v <= 1) {
			return false
		}
	}
	return true
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
