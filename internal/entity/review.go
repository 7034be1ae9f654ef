package entity

type Review struct {
	Base
	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	LocationID string   `gorm:"index"`
	Location   Location `gorm:"foreignKey:LocationID"`

	Rating   int
	Tags     Array[string]
	Photos   Array[string]
	Comment  string
	Verified bool `gorm:"default:false"`
}

// AccessibilityTags is the fixed vocabulary a review may attach. It also
// serves as the candidate label set for tag suggestion.
var AccessibilityTags = []string{
	"wheelchair-accessible",
	"step-free-entrance",
	"accessible-restroom",
	"accessible-parking",
	"elevator",
	"ramp",
	"braille-signage",
	"hearing-loop",
	"wide-doorways",
	"service-animal-friendly",
	"low-counter",
	"quiet-space",
}

func IsAccessibilityTag(tag string) bool {
	for _, t := range AccessibilityTags {
		if t == tag {
			return true
		}
	}

	return false
}
