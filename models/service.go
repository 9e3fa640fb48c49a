package models

// Pricing units. Lodging-style offerings price per night; everything else is
// a single-unit charge regardless of the selected range.
const (
	UnitPerNight = "per-night"
	UnitPerDay   = "per-day"
	UnitFlat     = "flat"
)

// AddOn is an optional priced extra. Add-on prices are flat: the party
// multiplier never applies to them.
type AddOn struct {
	ID    string  `bson:"id" json:"id"`
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// ServiceOffering is the catalog entry for a bookable service or package.
type ServiceOffering struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	BasePrice   float64 `bson:"base_price" json:"basePrice"`
	Unit        string  `bson:"unit" json:"unit"`
	MaxCapacity int     `bson:"max_capacity" json:"maxCapacity"`
	Currency    string  `bson:"currency" json:"currency"`
	AddOns      []AddOn `bson:"add_ons,omitempty" json:"addOns,omitempty"`
}

// AddOnByID returns the add-on definition for the given id, if present.
func (s *ServiceOffering) AddOnByID(id string) (AddOn, bool) {
	for _, a := range s.AddOns {
		if a.ID == id {
			return a, true
		}
	}
	return AddOn{}, false
}
