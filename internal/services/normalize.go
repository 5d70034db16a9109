package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Henryk91/get-company-info/internal/models"
	"github.com/Henryk91/get-company-info/pkg/googleplaces"
	"gorm.io/datatypes"
)

const photoMaxWidth = 400

// PlaceRecord is a normalized provider record. Every field is optional:
// nil means "not supplied" and leaves the stored value untouched on merge.
type PlaceRecord struct {
	PlaceID string

	Name             *string
	Address          *string
	City             *string
	Category         *string
	Latitude         *float64
	Longitude        *float64
	Rating           *float64
	UserRatingsTotal *int
	BusinessStatus   *string
	Types            []string

	FormattedAddress         *string
	PhoneNumber              *string
	InternationalPhoneNumber *string
	Website                  *string
	OpeningHours             []string
	PriceLevel               *int
	Description              *string
	PhotoReference           *string
	PhotoURL                 *string
	PostalCode               *string
	Province                 *string
	Suburb                   *string

	HasDetails bool
}

// ApplyTo merges the supplied fields into p. HasDetails only ever moves
// from false to true.
func (r *PlaceRecord) ApplyTo(p *models.Place) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	setString(&p.Address, r.Address)
	setString(&p.City, r.City)
	setString(&p.Category, r.Category)
	setFloat(&p.Latitude, r.Latitude)
	setFloat(&p.Longitude, r.Longitude)
	setFloat(&p.Rating, r.Rating)
	setInt(&p.UserRatingsTotal, r.UserRatingsTotal)
	setString(&p.BusinessStatus, r.BusinessStatus)
	if r.Types != nil {
		p.Types = toJSON(r.Types)
	}

	setString(&p.FormattedAddress, r.FormattedAddress)
	setString(&p.PhoneNumber, r.PhoneNumber)
	setString(&p.InternationalPhoneNumber, r.InternationalPhoneNumber)
	setString(&p.Website, r.Website)
	if r.OpeningHours != nil {
		p.OpeningHours = toJSON(r.OpeningHours)
	}
	setInt(&p.PriceLevel, r.PriceLevel)
	setString(&p.Description, r.Description)
	setString(&p.PhotoReference, r.PhotoReference)
	setString(&p.PhotoURL, r.PhotoURL)
	setString(&p.PostalCode, r.PostalCode)
	setString(&p.Province, r.Province)
	setString(&p.Suburb, r.Suburb)

	if r.HasDetails {
		p.HasDetails = true
	}
}

// NewPlace builds a fresh row owned by the given user and query
func (r *PlaceRecord) NewPlace(userID, searchQueryID uint) *models.Place {
	p := &models.Place{
		PlaceID:       r.PlaceID,
		UserID:        userID,
		SearchQueryID: searchQueryID,
	}
	r.ApplyTo(p)
	return p
}

// Normalizer maps provider payloads onto PlaceRecord
type Normalizer struct {
	// PhotoBaseURL is the provider base used to build photo URLs
	PhotoBaseURL string
}

// Summary maps a text search result. city and category come from the
// caller. ok is false when the result carries no place id.
func (n Normalizer) Summary(result googleplaces.SearchResult, city, category string) (PlaceRecord, bool) {
	if strings.TrimSpace(result.PlaceID) == "" {
		return PlaceRecord{}, false
	}

	lat, lng := coordinates(result.Geometry)
	return PlaceRecord{
		PlaceID:          result.PlaceID,
		Name:             result.Name,
		Address:          result.FormattedAddress,
		City:             &city,
		Category:         &category,
		Latitude:         lat,
		Longitude:        lng,
		Rating:           result.Rating,
		UserRatingsTotal: result.UserRatingsTotal,
		BusinessStatus:   result.BusinessStatus,
		Types:            result.Types,
		HasDetails:       false,
	}, true
}

// Detail maps a place details result for placeID
func (n Normalizer) Detail(placeID string, d *googleplaces.PlaceDetails) PlaceRecord {
	lat, lng := coordinates(d.Geometry)
	rec := PlaceRecord{
		PlaceID:                  placeID,
		FormattedAddress:         d.FormattedAddress,
		Latitude:                 lat,
		Longitude:                lng,
		Rating:                   d.Rating,
		UserRatingsTotal:         d.UserRatingsTotal,
		PhoneNumber:              d.FormattedPhoneNumber,
		InternationalPhoneNumber: d.InternationalPhoneNumber,
		Website:                  d.Website,
		BusinessStatus:           d.BusinessStatus,
		Types:                    d.Types,
		PriceLevel:               d.PriceLevel,
		HasDetails:               true,
	}

	if d.OpeningHours != nil && len(d.OpeningHours.WeekdayText) > 0 {
		rec.OpeningHours = d.OpeningHours.WeekdayText
	}
	if d.EditorialSummary != nil {
		rec.Description = nonEmpty(d.EditorialSummary.Overview)
	}
	for _, photo := range d.Photos {
		if photo.PhotoReference == "" {
			continue
		}
		ref := photo.PhotoReference
		url := googleplaces.PhotoURL(n.PhotoBaseURL, ref, photoMaxWidth)
		rec.PhotoReference = &ref
		rec.PhotoURL = &url
		break
	}

	rec.PostalCode = addressComponent(d.AddressComponents, "postal_code")
	rec.Province = addressComponent(d.AddressComponents, "administrative_area_level_1")
	rec.Suburb = addressComponent(d.AddressComponents, "sublocality_level_1", "sublocality", "neighborhood")

	return rec
}

// NormalizeKey lowercases and trims a city or category
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SearchText is the provider query for a category in a city
func SearchText(category, city string) string {
	return fmt.Sprintf("%s in %s", category, city)
}

func coordinates(g *googleplaces.Geometry) (lat, lng *float64) {
	if g == nil || g.Location == nil {
		return nil, nil
	}
	return g.Location.Lat, g.Location.Lng
}

// addressComponent returns the long name of the first component matching
// any of types, checked in order
func addressComponent(components []googleplaces.AddressComponent, types ...string) *string {
	for _, want := range types {
		for _, c := range components {
			for _, t := range c.Types {
				if t == want && c.LongName != "" {
					name := c.LongName
					return &name
				}
			}
		}
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func toJSON(v []string) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func setString(dst **string, src *string) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setFloat(dst **float64, src *float64) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setInt(dst **int, src *int) {
	if src != nil {
		v := *src
		*dst = &v
	}
}
