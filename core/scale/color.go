package scale

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
)

// enryDefaultColor is what enry returns for languages it has no colour for.
const enryDefaultColor = "#cccccc"

// tableau10 is the ordinal fallback palette for file types enry cannot name.
var tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Hour colour stops: night is cool, midday is warm.
var (
	nightRGB = [3]float64{0x2c, 0x3e, 0x91}
	dayRGB   = [3]float64{0xf2, 0x8e, 0x2b}
)

// ColorScale assigns colours to marks by hour of day and to file types by
// language. Type colours are stable for the life of the scale.
type ColorScale struct {
	mu       sync.Mutex
	assigned map[string]string
	next     int
}

// NewColorScale creates an empty ColorScale.
func NewColorScale() *ColorScale {
	return &ColorScale{assigned: make(map[string]string)}
}

// HourColor returns the sequential mark colour for an hour in [0,24).
func (c *ColorScale) HourColor(hour float64) string {
	// 0 at midnight, 1 at noon
	t := 1 - math.Abs(math.Mod(hour, 24)-12)/12
	t = math.Max(0, math.Min(1, t))
	var rgb [3]int
	for i := range rgb {
		rgb[i] = int(math.Round(nightRGB[i] + t*(dayRGB[i]-nightRGB[i])))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// TypeColor returns the colour of a file type such as "js" or "css". Known
// languages use their linguist colour; anything else draws from the ordinal
// palette in first-request order.
func (c *ColorScale) TypeColor(typ string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if col, ok := c.assigned[typ]; ok {
		return col
	}
	col := languageColor(typ)
	if col == "" {
		col = tableau10[c.next%len(tableau10)]
		c.next++
	}
	c.assigned[typ] = col
	return col
}

// languageColor resolves a file type through its extension. Returns "" when
// enry has no colour for it.
func languageColor(typ string) string {
	typ = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(typ)), ".")
	if typ == "" {
		return ""
	}
	lang, _ := enry.GetLanguageByExtension("file." + typ)
	if lang == "" {
		return ""
	}
	col := enry.GetColor(lang)
	if col == "" || strings.EqualFold(col, enryDefaultColor) {
		return ""
	}
	return col
}
