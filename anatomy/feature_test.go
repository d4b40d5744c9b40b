package anatomy

import "testing"

func TestInferKind(t *testing.T) {
	tests := []struct {
		input  string
		want   FeatureKind
		wantOK bool
	}{
		{"HeartSurfaceRendering.py", SurfaceRendering, true},
		{"BrainSurfaceRendering.py", SurfaceRendering, true},
		{"HeartClippingPlans.py", ClippingPlanes, true},
		{"DentalClippingPlans.py", ClippingPlanes, true},
		{"AortaCurvedMPR.py", CurvedMPR, true},
		{"muscleCurvedMPR.py", CurvedMPR, true},
		{"BrainFocusNavigation.py", FocusNavigation, true},
		// Historical misspelling in the script set; the stable "focus"
		// fragment still matches.
		{"HeartFocusNavigaton.py", FocusNavigation, true},
		{"BrainMovingStuffIllustration.py", MovingStuffIllustration, true},
		{"DentalMovingStuffIlustraion.py", MovingStuffIllustration, true},
		{"BrainFlyThrough.py", FlyThrough, true},
		{"muscleFlyThrough.py", FlyThrough, true},
		{"brain_helper.py", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := InferKind(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("InferKind(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("InferKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKindSections(t *testing.T) {
	if len(VisualizationKinds) != 3 || len(NavigationKinds) != 3 {
		t.Fatalf("expected 3+3 feature slots, got %d+%d", len(VisualizationKinds), len(NavigationKinds))
	}
	for _, k := range VisualizationKinds {
		if k.IsNavigation() {
			t.Errorf("%v should not be a navigation kind", k)
		}
	}
	for _, k := range NavigationKinds {
		if !k.IsNavigation() {
			t.Errorf("%v should be a navigation kind", k)
		}
	}
}

func TestKindByCode(t *testing.T) {
	for _, k := range append(append([]FeatureKind{}, VisualizationKinds...), NavigationKinds...) {
		got, ok := KindByCode(k.Code())
		if !ok || got != k {
			t.Errorf("KindByCode(%q) = %v (ok=%v), want %v", k.Code(), got, ok, k)
		}
	}
	if _, ok := KindByCode("volume-rendering"); ok {
		t.Error("unknown kind code should not resolve")
	}
}
