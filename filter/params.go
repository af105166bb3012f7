package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pixelforge/imagegraph/engerr"
	"github.com/pixelforge/imagegraph/kernel"
)

// paramErr wraps a parameter-decoding failure with the owning filter kind,
// matching engerr's typed-error contract for strict deserialization.
func paramErr(kind, field string, err error) error {
	return engerr.New(engerr.InvalidArgument, kind+".params",
		fmt.Errorf("field %q: %w", field, err))
}

func getFloat(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func getInt(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func getBool(params map[string]any, key string, def bool) (bool, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

func getString(params map[string]any, key, def string) (string, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

// getColor decodes a lowercase #rrggbb or #rrggbbaa hex color into a
// straight [0,1] kernel.Color; a trailing alpha byte, if present, is
// discarded since kernel.Color itself carries no alpha (getColorAlpha
// returns it; layer effects treat opacity as its own parameter).
func getColor(params map[string]any, key string, def kernel.Color) (kernel.Color, error) {
	c, _, err := getColorAlpha(params, key, def, 255)
	return c, err
}

func getColorAlpha(params map[string]any, key string, defColor kernel.Color, defAlpha uint8) (kernel.Color, uint8, error) {
	s, ok := params[key]
	if !ok {
		return defColor, defAlpha, nil
	}
	str, ok := s.(string)
	if !ok {
		return kernel.Color{}, 0, fmt.Errorf("expected hex color string, got %T", s)
	}
	return parseHexColor(str)
}

func parseHexColor(s string) (kernel.Color, uint8, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return kernel.Color{}, 0, fmt.Errorf("invalid hex color %q", s)
	}
	byteAt := func(i int) (uint8, error) {
		n, err := strconv.ParseUint(s[i:i+2], 16, 8)
		return uint8(n), err
	}
	r, err := byteAt(0)
	if err != nil {
		return kernel.Color{}, 0, err
	}
	g, err := byteAt(2)
	if err != nil {
		return kernel.Color{}, 0, err
	}
	b, err := byteAt(4)
	if err != nil {
		return kernel.Color{}, 0, err
	}
	a := uint8(255)
	if len(s) == 8 {
		a, err = byteAt(6)
		if err != nil {
			return kernel.Color{}, 0, err
		}
	}
	return kernel.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, a, nil
}

func getEdgeMode(params map[string]any, key string, def kernel.EdgeMode) (kernel.EdgeMode, error) {
	s, ok := params[key]
	if !ok {
		return def, nil
	}
	str, ok := s.(string)
	if !ok {
		return 0, fmt.Errorf("expected edge mode string, got %T", s)
	}
	switch str {
	case "clamp":
		return kernel.EdgeClamp, nil
	case "reflect":
		return kernel.EdgeReflect, nil
	case "wrap":
		return kernel.EdgeWrap, nil
	case "zero":
		return kernel.EdgeZero, nil
	default:
		return 0, fmt.Errorf("unrecognized edge mode %q", str)
	}
}
