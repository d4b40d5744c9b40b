package anatomy

// Category is one of the four supported anatomical systems. The set is
// closed; scripts that belong to none of them are not shown anywhere.
type Category int

const (
	Nervous Category = iota
	Cardiovascular
	Musculoskeletal
	Dental
)

// Categories lists every category in display order.
var Categories = []Category{Nervous, Cardiovascular, Musculoskeletal, Dental}

// Info holds the static per-category metadata used by the menu and the
// dispatcher.
type Info struct {
	// Name is the display name shown in the category menu.
	Name string
	// Code is the short identifier used in config files, paths and logs.
	Code string
	// Color is the accent color used when rendering the category.
	Color string
	// DataFile is the default imaging file name, resolved inside the
	// configured data directory unless overridden per category.
	DataFile string
}

var categoryInfo = map[Category]Info{
	Nervous: {
		Name:     "Nervous System",
		Code:     "nervous",
		Color:    "#9b59b6",
		DataFile: "brain.nii.gz",
	},
	Cardiovascular: {
		Name:     "Cardiovascular System",
		Code:     "cardiovascular",
		Color:    "#e74c3c",
		DataFile: "heart.nii.gz",
	},
	Musculoskeletal: {
		Name:     "Musculoskeletal System",
		Code:     "musculoskeletal",
		Color:    "#f39c12",
		DataFile: "muscle.nii.gz",
	},
	Dental: {
		Name:     "Mouth/Dental System",
		Code:     "dental",
		Color:    "#3498db",
		DataFile: "dental.nii.gz",
	},
}

// Info returns the static metadata for the category.
func (c Category) Info() Info {
	return categoryInfo[c]
}

func (c Category) String() string {
	return categoryInfo[c].Name
}

// CategoryByCode resolves a short code (as written in catalog and config
// files) back to its category.
func CategoryByCode(code string) (Category, bool) {
	for _, c := range Categories {
		if categoryInfo[c].Code == code {
			return c, true
		}
	}
	return 0, false
}
