package models

import (
	"gorm.io/datatypes"
)

// Place is a cached business record. PlaceID is the provider-issued
// identifier and is unique per user.
// DB: places
type Place struct {
	BaseModel
	PlaceID  string  `gorm:"column:place_id;size:255;not null;index;uniqueIndex:idx_places_user_place,priority:2" json:"place_id"`
	UserID   uint    `gorm:"column:user_id;not null;uniqueIndex:idx_places_user_place,priority:1" json:"-"`
	Name     string  `gorm:"column:name;size:255;not null" json:"name"`
	Address  *string `gorm:"column:address;size:500" json:"address"`
	City     *string `gorm:"column:city;size:255" json:"city"`
	Category *string `gorm:"column:category;size:255" json:"category"`

	Latitude         *float64       `gorm:"column:latitude" json:"latitude"`
	Longitude        *float64       `gorm:"column:longitude" json:"longitude"`
	Rating           *float64       `gorm:"column:rating" json:"rating"`
	UserRatingsTotal *int           `gorm:"column:user_ratings_total" json:"user_ratings_total"`
	BusinessStatus   *string        `gorm:"column:business_status;size:50" json:"business_status"`
	Types            datatypes.JSON `gorm:"column:types" json:"types"`

	// Filled by a details lookup
	FormattedAddress         *string        `gorm:"column:formatted_address;size:500" json:"formatted_address"`
	PhoneNumber              *string        `gorm:"column:phone_number;size:50" json:"phone_number"`
	InternationalPhoneNumber *string        `gorm:"column:international_phone_number;size:50" json:"international_phone_number"`
	Website                  *string        `gorm:"column:website;type:text" json:"website"`
	OpeningHours             datatypes.JSON `gorm:"column:opening_hours" json:"opening_hours"`
	PriceLevel               *int           `gorm:"column:price_level" json:"price_level"`
	Description              *string        `gorm:"column:description;type:text" json:"description"`
	PhotoReference           *string        `gorm:"column:photo_reference;type:text" json:"photo_reference"`
	PhotoURL                 *string        `gorm:"column:photo_url;type:text" json:"photo_url"`
	PostalCode               *string        `gorm:"column:postal_code;size:20" json:"postal_code"`
	Province                 *string        `gorm:"column:province;size:100" json:"province"`
	Suburb                   *string        `gorm:"column:suburb;size:100" json:"suburb"`

	HasDetails    bool `gorm:"column:has_details;not null;default:false" json:"has_details"`
	SearchQueryID uint `gorm:"column:search_query_id;not null;index" json:"search_query_id"`
}

func (Place) TableName() string {
	return "places"
}
