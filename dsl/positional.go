package dsl

// positionalParams lists, for each registered filter kind, the parameter
// names bound by declaration order — i.e. the order its builder function in
// filter/builtin_*.go calls getFloat/getInt/getString/etc. A kind absent
// from this table has no positional form: any positional argument supplied
// for it is a build error, and callers must use key=value syntax instead.
// This is a deliberate, hand-maintained allowlist rather than a reflection
// trick over each filter's Factory, since Factory's signature
// (map[string]any) erases argument order entirely. Kinds whose parameters
// are arrays, quads, or LUTs (colormap, perspective_transform,
// gradient_overlay, pattern_overlay) are left out: they have no natural
// positional form.
var positionalParams = map[string][]string{
	"gaussian_blur": {"sigma", "edge"},
	"box_blur":      {"radius", "edge"},
	"median_blur":   {"radius", "edge"},
	"bilateral":     {"radius", "sigma_space", "sigma_color", "edge"},

	"sobel":     {"edge"},
	"scharr":    {"edge"},
	"laplacian": {"edge"},
	"canny":     {"sigma", "low_threshold", "high_threshold", "edge"},

	"threshold":  {"value"},
	"invert":     {},
	"brightness": {"delta"},
	"contrast":   {"factor"},
	"saturation": {"factor"},
	"gamma":      {"gamma"},
	"log":        {},
	"sigmoid":    {"gain", "cutoff"},
	"posterize":  {"levels"},
	"solarize":   {"threshold"},
	"grayscale":  {"method"},

	"resize":          {"width", "height", "method", "edge"},
	"rotate":          {"degrees", "edge"},
	"flip":            {"horizontal", "vertical"},
	"crop":            {"x", "y", "width", "height"},
	"center_crop":     {"width", "height"},
	"lens_distortion": {"k1", "k2", "k3", "p1", "p2", "forward", "edge"},

	"blend": {"mode", "opacity"},

	"equalize":           {},
	"clahe":              {"tile_width", "tile_height", "clip_limit"},
	"adaptive_threshold": {"radius", "method", "c", "edge"},

	"premultiply":           {},
	"unpremultiply":         {},
	"alpha_dilate":          {"radius", "edge"},
	"alpha_erode":           {"radius", "edge"},
	"signed_distance_field": {"max_distance"},

	"erode":          {"shape", "radius", "edge"},
	"dilate":         {"shape", "radius", "edge"},
	"morph_open":     {"shape", "radius", "edge"},
	"morph_close":    {"shape", "radius", "edge"},
	"morph_gradient": {"shape", "radius", "edge"},
	"top_hat":        {"shape", "radius", "edge"},
	"black_hat":      {"shape", "radius", "edge"},

	"drop_shadow":  {"spread", "sigma", "distance", "angle_rad", "color", "opacity"},
	"inner_shadow": {"choke", "sigma", "distance", "angle_rad", "color", "opacity"},
	"outer_glow":   {"spread", "sigma", "color", "opacity"},
	"inner_glow":   {"choke", "sigma", "color", "opacity"},
	"bevel_emboss": {"style", "sigma", "angle_rad", "altitude", "depth"},
	"satin": {
		"distance1", "angle_rad1", "sigma1",
		"distance2", "angle_rad2", "sigma2",
		"invert", "color", "opacity",
	},
	"stroke":        {"width", "position", "color", "opacity"},
	"color_overlay": {"color", "opacity"},
}

// positionalName returns the parameter name bound by the n'th (0-based)
// positional argument of kind, or ok=false if kind has no positional form
// or n is out of range.
func positionalName(kind string, n int) (string, bool) {
	names, ok := positionalParams[kind]
	if !ok || n >= len(names) {
		return "", false
	}
	return names[n], true
}
