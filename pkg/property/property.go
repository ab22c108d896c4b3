package property

import (
	"time"
)

var PropertyTypes = []string{"HOUSE", "APARTMENT", "CONDO", "LAND", "TOWNHOUSE", "MULTI_FAMILY", "COMMERCIAL"}

var Statuses = []string{"PENDING", "APPROVED", "REJECTED", "AVAILABLE", "SOLD", "OFF_MARKET"}

var HeatingTypes = []string{"NONE", "GAS", "ELECTRIC", "WOOD", "GEOTHERMAL", "SOLAR"}

var CoolingTypes = []string{"NONE", "CENTRAL_AIR", "WINDOW_UNIT", "EVAPORATIVE", "GEOTHERMAL"}

type Property struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	PropertyType  string    `json:"propertyType"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	SquareFeet    int       `json:"squareFeet"`
	LotSize       int       `json:"lotSize"`
	YearBuilt     int       `json:"yearBuilt"`
	Status        string    `json:"status"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	PostalCode    string    `json:"postalCode"`
	Country       string    `json:"country"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	HasGarage     bool      `json:"hasGarage"`
	HasPool       bool      `json:"hasPool"`
	HasBasement   bool      `json:"hasBasement"`
	HasFireplace  bool      `json:"hasFireplace"`
	ParkingSpaces int       `json:"parkingSpaces"`
	HeatingType   string    `json:"heatingType"`
	CoolingType   string    `json:"coolingType"`
	ImageUrls     []string  `json:"imageUrls"`
	VideoUrl      string    `json:"videoUrl"`
	FloorPlans    []string  `json:"floorPlans"`
	AgentId       string    `json:"agentId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Filter narrows a search. Zero values mean "not set"; price bounds use
// pointers so 0 remains a usable bound.
type Filter struct {
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	City         string
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Count      int `json:"count"`
	TotalPages int `json:"totalPages"`
}

type Stats struct {
	ByType   map[string]int `json:"byType"`
	ByStatus map[string]int `json:"byStatus"`
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func ValidPropertyType(value string) bool {
	return contains(PropertyTypes, value)
}

func ValidStatus(value string) bool {
	return contains(Statuses, value)
}

func ValidHeatingType(value string) bool {
	return contains(HeatingTypes, value)
}

func ValidCoolingType(value string) bool {
	return contains(CoolingTypes, value)
}

// ApplyDefaults fills the columns the schema defaults when the form leaves
// them blank.
func (property *Property) ApplyDefaults() {
	if property.Status == "" {
		property.Status = "PENDING"
	}
	if property.HeatingType == "" {
		property.HeatingType = "NONE"
	}
	if property.CoolingType == "" {
		property.CoolingType = "NONE"
	}
	if property.ImageUrls == nil {
		property.ImageUrls = []string{}
	}
	if property.FloorPlans == nil {
		property.FloorPlans = []string{}
	}
}

// Validate returns one entry per rejected field. An empty slice means the
// record is acceptable for persistence.
func (property *Property) Validate() []string {
	problems := []string{}
	if property.Title == "" {
		problems = append(problems, "title is required")
	}
	if property.Price < 0 {
		problems = append(problems, "price must be non-negative")
	}
	if !ValidPropertyType(property.PropertyType) {
		problems = append(problems, "propertyType must be one of HOUSE, APARTMENT, CONDO, LAND, TOWNHOUSE, MULTI_FAMILY, COMMERCIAL")
	}
	if property.Bedrooms < 0 {
		problems = append(problems, "bedrooms must be non-negative")
	}
	if property.Bathrooms < 0 {
		problems = append(problems, "bathrooms must be non-negative")
	}
	if property.Status != "" && !ValidStatus(property.Status) {
		problems = append(problems, "status must be one of PENDING, APPROVED, REJECTED, AVAILABLE, SOLD, OFF_MARKET")
	}
	if property.Address == "" {
		problems = append(problems, "address is required")
	}
	if property.City == "" {
		problems = append(problems, "city is required")
	}
	if property.State == "" {
		problems = append(problems, "state is required")
	}
	if property.PostalCode == "" {
		problems = append(problems, "postalCode is required")
	}
	if property.Country == "" {
		problems = append(problems, "country is required")
	}
	if property.AgentId == "" {
		problems = append(problems, "agentId is required")
	}
	if property.HeatingType != "" && !ValidHeatingType(property.HeatingType) {
		problems = append(problems, "heatingType must be one of NONE, GAS, ELECTRIC, WOOD, GEOTHERMAL, SOLAR")
	}
	if property.CoolingType != "" && !ValidCoolingType(property.CoolingType) {
		problems = append(problems, "coolingType must be one of NONE, CENTRAL_AIR, WINDOW_UNIT, EVAPORATIVE, GEOTHERMAL")
	}
	return problems
}
