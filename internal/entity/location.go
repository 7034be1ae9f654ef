package entity

type Location struct {
	Base
	Name     string `gorm:"index:idx_locations_name_address,unique"`
	Address  string `gorm:"index:idx_locations_name_address,unique"`
	Category string `gorm:"index"`

	Latitude  float64
	Longitude float64

	CreatedBy     string
	CreatedByUser User `gorm:"foreignKey:CreatedBy"`
}

const (
	CategoryRestaurant = "restaurant"
	CategoryCafe       = "cafe"
	CategoryShop       = "shop"
	CategoryPark       = "park"
	CategoryTransit    = "transit"
	CategoryHealthcare = "healthcare"
	CategoryEducation  = "education"
	CategoryOther      = "other"
)

var LocationCategories = []string{
	CategoryRestaurant,
	CategoryCafe,
	CategoryShop,
	CategoryPark,
	CategoryTransit,
	CategoryHealthcare,
	CategoryEducation,
	CategoryOther,
}
