package mood

import (
	"strings"
	"testing"

	"github.com/lumahq/luma/internal/capture"
)

func TestResolveLabel_SnapshotWins(t *testing.T) {
	ref := capture.ParseMoodRef("happy")
	// The mood was renamed after this capture; the snapshot is the
	// historically correct label.
	if got := ResolveLabel(ref, "Joyful"); got != "Joyful" {
		t.Errorf("ResolveLabel = %q, want snapshot %q", got, "Joyful")
	}
}

func TestResolveLabel_CatalogWhenSnapshotMissing(t *testing.T) {
	ref := capture.ParseMoodRef("happy")
	if got := ResolveLabel(ref, ""); got != "Happy" {
		t.Errorf("ResolveLabel = %q, want catalog name %q", got, "Happy")
	}
}

func TestResolveLabel_SnapshotEchoingRawIDIgnored(t *testing.T) {
	ref := capture.ParseMoodRef("calm")
	if got := ResolveLabel(ref, "calm"); got != "Calm" {
		t.Errorf("ResolveLabel = %q, want catalog name %q", got, "Calm")
	}
}

func TestResolveLabel_CustomWithSnapshot(t *testing.T) {
	ref := capture.ParseMoodRef("custom_01hvz3abc")
	if got := ResolveLabel(ref, "Cozy"); got != "Cozy" {
		t.Errorf("ResolveLabel = %q, want %q", got, "Cozy")
	}
}

func TestResolveLabel_CustomNoSnapshotGenericLabel(t *testing.T) {
	ref := capture.ParseMoodRef("custom_01hvz3abc")
	if got := ResolveLabel(ref, ""); got != GenericCustomLabel {
		t.Errorf("ResolveLabel = %q, want %q", got, GenericCustomLabel)
	}
}

func TestResolveLabel_RawCustomIDSnapshotNeverShown(t *testing.T) {
	// A snapshot that looks like a raw custom-mood identifier must not
	// surface; the generic label is preferred.
	ref := capture.ParseMoodRef("custom_01hvz3abc")
	got := ResolveLabel(ref, "custom_01hvz3abc")
	if strings.HasPrefix(got, "custom_") {
		t.Errorf("ResolveLabel leaked raw identifier: %q", got)
	}
	if got != GenericCustomLabel {
		t.Errorf("ResolveLabel = %q, want %q", got, GenericCustomLabel)
	}
}

func TestResolveLabel_UnknownSystemIDTitleCased(t *testing.T) {
	ref := capture.ParseMoodRef("slightly_off")
	if got := ResolveLabel(ref, ""); got != "Slightly Off" {
		t.Errorf("ResolveLabel = %q, want %q", got, "Slightly Off")
	}
}

func TestResolveLabel_MultibyteLeadingRuneTitleCased(t *testing.T) {
	// The first letter of a word may be a multibyte rune; title-casing
	// must not slice it mid-sequence.
	ref := capture.ParseMoodRef("über_calm")
	if got := ResolveLabel(ref, ""); got != "Über Calm" {
		t.Errorf("ResolveLabel = %q, want %q", got, "Über Calm")
	}
	ref = capture.ParseMoodRef("étourdi")
	if got := ResolveLabel(ref, ""); got != "Étourdi" {
		t.Errorf("ResolveLabel = %q, want %q", got, "Étourdi")
	}
}

func TestResolveColor_CatalogFixed(t *testing.T) {
	ref := capture.ParseMoodRef("happy")
	want, _ := Lookup("happy")
	if got := ResolveColor(ref, ""); got != want.Color {
		t.Errorf("ResolveColor = %q, want %q", got, want.Color)
	}
}

func TestResolveColor_StableAcrossCalls(t *testing.T) {
	ref := capture.ParseMoodRef("custom_x1")
	a := ResolveColor(ref, "Cozy")
	b := ResolveColor(ref, "Cozy")
	if a != b {
		t.Errorf("derived color not stable: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "#") || len(a) != 7 {
		t.Errorf("derived color not hex: %q", a)
	}
}

func TestResolveColor_DifferentLabelsDiffer(t *testing.T) {
	ref := capture.ParseMoodRef("custom_x1")
	if ResolveColor(ref, "Cozy") == ResolveColor(ref, "Restless") {
		t.Error("distinct labels produced the same derived color")
	}
}

func TestResolveColor_NeutralFallback(t *testing.T) {
	ref := capture.MoodRef{Kind: capture.MoodSystem, ID: ""}
	if got := ResolveColor(ref, ""); got != NeutralColor {
		t.Errorf("ResolveColor = %q, want neutral %q", got, NeutralColor)
	}
}
