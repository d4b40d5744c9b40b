package ui

import (
	"strings"
	"testing"

	"github.com/muesli/ansi"

	"medviz/anatomy"
)

// stripANSI removes escape sequences so tests can assert on plain text.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		if inEscape {
			if ansi.IsTerminator(r) {
				inEscape = false
			}
			continue
		}
		if r == ansi.Marker {
			inEscape = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestCategoryListRendersCountsAndPlaceholder(t *testing.T) {
	l := NewCategoryList()
	l.SetSize(80, 20)
	l.SetMapping(anatomy.Classify([]string{
		"HeartSurfaceRendering.py",
		"HeartClippingPlans.py",
		"BrainFlyThrough.py",
	}))

	out := stripANSI(l.String())

	if !strings.Contains(out, "Cardiovascular System") {
		t.Error("output missing cardiovascular system")
	}
	if !strings.Contains(out, "2 features available") {
		t.Error("output missing cardiovascular script count")
	}
	if !strings.Contains(out, "1 features available") {
		t.Error("output missing nervous script count")
	}
	// Categories with no scripts advertise themselves as pending.
	if !strings.Contains(out, "Coming Soon") {
		t.Error("output missing Coming Soon placeholder for empty categories")
	}
}

func TestCategoryListNavigationClamps(t *testing.T) {
	l := NewCategoryList()

	l.Up()
	if l.Selected() != anatomy.Nervous {
		t.Errorf("Up at top moved selection to %v", l.Selected())
	}

	for i := 0; i < 10; i++ {
		l.Down()
	}
	if l.Selected() != anatomy.Dental {
		t.Errorf("Down past bottom landed on %v, want Dental", l.Selected())
	}

	l.SetSelectedIdx(99)
	if l.Selected() != anatomy.Dental {
		t.Errorf("SetSelectedIdx should clamp, got %v", l.Selected())
	}
	l.SetSelectedIdx(-5)
	if l.Selected() != anatomy.Nervous {
		t.Errorf("SetSelectedIdx should clamp to first, got %v", l.Selected())
	}
}

func TestFeatureMenuSlots(t *testing.T) {
	mapping := anatomy.Classify([]string{
		"HeartSurfaceRendering.py",
		"HeartClippingPlans.py",
		"HeartFlyThrough.py",
	})

	m := NewFeatureMenu()
	m.SetSize(60, 20)
	m.SetCategory(anatomy.Cardiovascular, mapping)

	if m.NumAvailable() != 3 {
		t.Errorf("NumAvailable = %d, want 3", m.NumAvailable())
	}

	item, ok := m.Selected()
	if !ok {
		t.Fatal("expected a selected item")
	}
	if item.Kind != anatomy.SurfaceRendering {
		t.Errorf("initial selection = %v, want SurfaceRendering", item.Kind)
	}

	// Down skips the disabled CurvedMPR and FocusNavigation slots.
	m.Down()
	item, _ = m.Selected()
	if item.Kind != anatomy.ClippingPlanes {
		t.Errorf("after one Down selection = %v, want ClippingPlanes", item.Kind)
	}
	m.Down()
	item, _ = m.Selected()
	if item.Kind != anatomy.FlyThrough {
		t.Errorf("after two Downs selection = %v, want FlyThrough", item.Kind)
	}

	out := stripANSI(m.String())
	if !strings.Contains(out, "Visualization Methods") || !strings.Contains(out, "Navigation Methods") {
		t.Error("feature menu missing section headers")
	}
	if !strings.Contains(out, "Curved MPR") {
		t.Error("feature menu should render unavailable slots too")
	}
}

func TestFeatureMenuEmptyCategory(t *testing.T) {
	m := NewFeatureMenu()
	m.SetSize(60, 20)
	m.SetCategory(anatomy.Dental, anatomy.Classify(nil))

	if m.NumAvailable() != 0 {
		t.Errorf("NumAvailable = %d, want 0", m.NumAvailable())
	}
	if _, ok := m.Selected(); ok {
		t.Error("empty category should have no selection")
	}

	// Rendering an empty category must not panic or error; all six
	// slots simply render disabled.
	out := stripANSI(m.String())
	if !strings.Contains(out, "Surface Rendering") {
		t.Error("empty category should still list feature slots")
	}
}

func TestOutputPane(t *testing.T) {
	p := NewOutputPane()
	p.SetSize(40, 10)

	out := stripANSI(p.String())
	if !strings.Contains(out, "No script running") {
		t.Error("idle pane should show placeholder")
	}

	p.SetContent("HeartFlyThrough.py", "line one\nline two\n")
	out = stripANSI(p.String())
	if !strings.Contains(out, "HeartFlyThrough.py") {
		t.Error("pane missing launch title")
	}
	if !strings.Contains(out, "line two") {
		t.Error("pane missing output tail")
	}

	p.Clear()
	out = stripANSI(p.String())
	if strings.Contains(out, "line two") {
		t.Error("pane should be empty after Clear")
	}
}

func TestErrBox(t *testing.T) {
	b := NewErrBox()
	b.SetSize(60, 1)

	b.SetError(errTest{"imaging file for Nervous System not found"})
	if !strings.Contains(stripANSI(b.String()), "imaging file") {
		t.Error("err box missing error text")
	}

	b.SetInfo("copied command to clipboard")
	out := stripANSI(b.String())
	if !strings.Contains(out, "copied command") {
		t.Error("err box missing info text")
	}

	b.Clear()
	if strings.TrimSpace(stripANSI(b.String())) != "" {
		t.Error("err box should be empty after Clear")
	}
}

type errTest struct{ msg string }

func (e errTest) Error() string { return e.msg }

func TestMenuStates(t *testing.T) {
	m := NewMenu()
	m.SetSize(100, 1)

	out := stripANSI(m.String())
	if !strings.Contains(out, "rescan scripts") {
		t.Error("categories menu should advertise rescan")
	}

	m.SetState(MenuStateRunning)
	out = stripANSI(m.String())
	if !strings.Contains(out, "kill script") || !strings.Contains(out, "copy command") {
		t.Errorf("running menu missing bindings: %q", out)
	}
}
