package mood

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lumahq/luma/internal/capture"
)

// GenericCustomLabel is shown for custom moods with no usable snapshot.
const GenericCustomLabel = "Custom Mood"

// ResolveLabel resolves a capture's mood reference plus its historical
// name snapshot into a display label. The fallback order is load
// bearing: a verified snapshot wins over the catalog (the definition
// may have been renamed since capture), but a snapshot that is empty,
// echoes the raw identifier, or looks like an internal custom-mood ID
// is never shown to the user.
func ResolveLabel(ref capture.MoodRef, snapshot string) string {
	snapshot = strings.TrimSpace(snapshot)
	raw := ref.Raw()

	if snapshot != "" && snapshot != raw && !capture.LooksLikeRawMoodID(snapshot) {
		return snapshot
	}
	if ref.Kind == capture.MoodSystem {
		if e, ok := Lookup(ref.ID); ok {
			return e.Name
		}
	}
	if ref.Kind == capture.MoodCustom {
		if snapshot != "" && !capture.LooksLikeRawMoodID(snapshot) {
			return snapshot
		}
		return GenericCustomLabel
	}
	return titleCase(ref.ID)
}

// ResolveColor resolves a deterministic color for the capture's mood.
// Catalog moods use their fixed color; anything else derives a stable
// color from the resolved label, so the same label renders identically
// across sessions. Empty labels fall back to a neutral gray.
func ResolveColor(ref capture.MoodRef, snapshot string) string {
	if ref.Kind == capture.MoodSystem {
		if e, ok := Lookup(ref.ID); ok {
			return e.Color
		}
	}
	label := ResolveLabel(ref, snapshot)
	if label == "" {
		return NeutralColor
	}
	return stableColor(label)
}

// stableColor derives a pseudo-random but stable color from label text.
// Same label, same color; never a literal random draw.
func stableColor(label string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(label)))
	hue := int(h.Sum32() % 360)
	return hslToHex(hue, 62, 58)
}

// hslToHex converts HSL (h in degrees, s/l in percent) to a #rrggbb hex
// string.
func hslToHex(h, s, l int) string {
	hf := float64(h) / 360
	sf := float64(s) / 100
	lf := float64(l) / 100

	var r, g, b float64
	if sf == 0 {
		r, g, b = lf, lf, lf
	} else {
		var q float64
		if lf < 0.5 {
			q = lf * (1 + sf)
		} else {
			q = lf + sf - lf*sf
		}
		p := 2*lf - q
		r = hueToRGB(p, q, hf+1.0/3)
		g = hueToRGB(p, q, hf)
		b = hueToRGB(p, q, hf-1.0/3)
	}
	return fmt.Sprintf("#%02x%02x%02x", int(r*255+0.5), int(g*255+0.5), int(b*255+0.5))
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// titleCase uppercases the first letter of each underscore- or
// space-separated word in a raw identifier.
func titleCase(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	for i, w := range words {
		// Uppercase the first rune, not the first byte: identifiers can
		// start with a multibyte letter.
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
