package anatomy

import "strings"

// FeatureKind is the visualization or navigation method a script
// implements. Like Category it is a closed set: three visualization
// methods and three navigation methods.
type FeatureKind int

const (
	SurfaceRendering FeatureKind = iota
	ClippingPlanes
	CurvedMPR
	FocusNavigation
	MovingStuffIllustration
	FlyThrough
)

// VisualizationKinds and NavigationKinds are the two feature menu
// sections, three slots each.
var (
	VisualizationKinds = []FeatureKind{SurfaceRendering, ClippingPlanes, CurvedMPR}
	NavigationKinds    = []FeatureKind{FocusNavigation, MovingStuffIllustration, FlyThrough}
)

var kindInfo = map[FeatureKind]struct {
	name string
	code string
}{
	SurfaceRendering:        {"Surface Rendering", "surface-rendering"},
	ClippingPlanes:          {"Clipping Planes", "clipping-planes"},
	CurvedMPR:               {"Curved MPR", "curved-mpr"},
	FocusNavigation:         {"Focus Navigation", "focus-navigation"},
	MovingStuffIllustration: {"Moving Stuff Illustration", "moving-stuff"},
	FlyThrough:              {"Fly-through Navigation", "fly-through"},
}

func (k FeatureKind) String() string {
	return kindInfo[k].name
}

// Code returns the identifier used for the kind in catalog files.
func (k FeatureKind) Code() string {
	return kindInfo[k].code
}

// IsNavigation reports whether the kind belongs to the navigation section
// of the feature menu.
func (k FeatureKind) IsNavigation() bool {
	switch k {
	case FocusNavigation, MovingStuffIllustration, FlyThrough:
		return true
	}
	return false
}

// KindByCode resolves a catalog-file kind code back to its FeatureKind.
func KindByCode(code string) (FeatureKind, bool) {
	for k, info := range kindInfo {
		if info.code == code {
			return k, true
		}
	}
	return 0, false
}

// kindPatterns maps each kind to the filename fragments that identify it.
// Order matters twice over: kinds are tested in the order listed, and
// within a kind the fragments are alternatives. The fragments mirror the
// naming convention of the feature scripts themselves, including their
// historical misspellings ("Ilustraion", "Navigaton") which still match
// on the stable prefixes below.
var kindPatterns = []struct {
	kind     FeatureKind
	patterns []string
}{
	{SurfaceRendering, []string{"surfacerendering", "rendering"}},
	{ClippingPlanes, []string{"clipping", "clippingplans"}},
	{CurvedMPR, []string{"curved", "mpr", "curvedmpr"}},
	{FocusNavigation, []string{"focus", "navigation", "focusnavigation"}},
	{MovingStuffIllustration, []string{"moving", "illustration", "movingstuff"}},
	{FlyThrough, []string{"flythrough", "fly"}},
}

// InferKind guesses the feature kind from a script identifier. The match
// is case-insensitive substring containment; the first kind with any
// matching fragment wins. The second return is false when no fragment
// matches, which only affects menu placement, never classification.
func InferKind(name string) (FeatureKind, bool) {
	low := strings.ToLower(name)
	for _, kp := range kindPatterns {
		for _, p := range kp.patterns {
			if strings.Contains(low, p) {
				return kp.kind, true
			}
		}
	}
	return 0, false
}
