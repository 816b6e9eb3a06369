// Package colormap provides the named sequential and diverging color maps a
// heatmap can be drawn with. Each map is a lookup table of 256 colors built
// by interpolating a short list of anchor colors.
package colormap

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"zheatmap/internal/errors"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of entries in every lookup table
const Size = 256

// reversedSuffix selects the reversed variant of any map, e.g. "RdBu_r"
const reversedSuffix = "_r"

var anchors = map[string][]string{
	// ColorBrewer sequential
	"YlOrRd":  {"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c", "#fc4e2a", "#e31a1c", "#bd0026", "#800026"},
	"YlOrBr":  {"#ffffe5", "#fff7bc", "#fee391", "#fec44f", "#fe9929", "#ec7014", "#cc4c02", "#993404", "#662506"},
	"YlGnBu":  {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"},
	"YlGn":    {"#ffffe5", "#f7fcb9", "#d9f0a3", "#addd8e", "#78c679", "#41ab5d", "#238443", "#006837", "#004529"},
	"OrRd":    {"#fff7ec", "#fee8c8", "#fdd49e", "#fdbb84", "#fc8d59", "#ef6548", "#d7301f", "#b30000", "#7f0000"},
	"Reds":    {"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#a50f15", "#67000d"},
	"Blues":   {"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#08519c", "#08306b"},
	"Greens":  {"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#006d2c", "#00441b"},
	"Greys":   {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
	"Purples": {"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#54278f", "#3f007d"},
	"Oranges": {"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c", "#f16913", "#d94801", "#a63603", "#7f2704"},

	// ColorBrewer diverging
	"RdBu":   {"#67001f", "#b2182b", "#d6604d", "#f4a582", "#fddbc7", "#f7f7f7", "#d1e5f0", "#92c5de", "#4393c3", "#2166ac", "#053061"},
	"RdYlBu": {"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee090", "#ffffbf", "#e0f3f8", "#abd9e9", "#74add1", "#4575b4", "#313695"},

	// Perceptually uniform maps, sampled at ten evenly spaced points
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"magma":   {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"inferno": {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"},
	"plasma":  {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},

	"coolwarm": {"#3b4cc0", "#6788ee", "#9abbff", "#c9d7f0", "#edd1c2", "#f7a889", "#e26952", "#b40426"},
	"bwr":      {"#0000ff", "#ffffff", "#ff0000"},
	"gray":     {"#000000", "#ffffff"},
}

// Colormap maps a fraction in [0, 1] to a color
type Colormap struct {
	name string
	lut  [Size]color.RGBA
}

// Lookup returns the named map. Appending "_r" to any name reverses it.
func Lookup(name string) (*Colormap, error) {
	base, reversed := name, false
	if strings.HasSuffix(name, reversedSuffix) {
		base, reversed = strings.TrimSuffix(name, reversedSuffix), true
	}

	hexes, ok := anchors[base]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown color map %q (available: %s)", name, strings.Join(Names(), ", ")))
	}

	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, errors.Wrapf(err, "color map %s has a bad anchor %q", base, h)
		}
		stops[i] = c
	}
	if reversed {
		for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
			stops[i], stops[j] = stops[j], stops[i]
		}
	}

	cm := &Colormap{name: name}
	segments := float64(len(stops) - 1)
	for k := 0; k < Size; k++ {
		pos := float64(k) / float64(Size-1) * segments
		seg := int(math.Floor(pos))
		if seg >= len(stops)-1 {
			seg = len(stops) - 2
		}
		r, g, b := stops[seg].BlendRgb(stops[seg+1], pos-float64(seg)).Clamped().RGB255()
		cm.lut[k] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return cm, nil
}

// Names lists every base map name in sorted order; each also has an "_r"
// variant.
func Names() []string {
	names := make([]string, 0, len(anchors))
	for name := range anchors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Name returns the name the map was looked up by
func (c *Colormap) Name() string { return c.name }

// At returns the color for frac. Values outside [0, 1] are clamped; NaN
// yields the lowest color.
func (c *Colormap) At(frac float64) color.RGBA {
	if math.IsNaN(frac) || frac <= 0 {
		return c.lut[0]
	}
	idx := int(frac * Size)
	if idx >= Size {
		idx = Size - 1
	}
	return c.lut[idx]
}
