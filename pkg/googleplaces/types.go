package googleplaces

// Status values reported in the "status" field of every response
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusRequestDenied  = "REQUEST_DENIED"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusNotFound       = "NOT_FOUND"
)

// Pointer fields stay nil when the API omits them or sends null.

type LatLng struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type Geometry struct {
	Location *LatLng `json:"location"`
}

// SearchResult is one entry of a Text Search response
type SearchResult struct {
	PlaceID          string    `json:"place_id"`
	Name             *string   `json:"name"`
	FormattedAddress *string   `json:"formatted_address"`
	Geometry         *Geometry `json:"geometry"`
	Rating           *float64  `json:"rating"`
	UserRatingsTotal *int      `json:"user_ratings_total"`
	BusinessStatus   *string   `json:"business_status"`
	Types            []string  `json:"types"`
}

// TextSearchResponse represents /textsearch/json
type TextSearchResponse struct {
	Status        string         `json:"status"`
	Results       []SearchResult `json:"results"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type EditorialSummary struct {
	Overview *string `json:"overview"`
}

// PlaceDetails is the "result" object of a Place Details response
type PlaceDetails struct {
	PlaceID                  *string            `json:"place_id"`
	Name                     *string            `json:"name"`
	FormattedAddress         *string            `json:"formatted_address"`
	Geometry                 *Geometry          `json:"geometry"`
	Rating                   *float64           `json:"rating"`
	UserRatingsTotal         *int               `json:"user_ratings_total"`
	FormattedPhoneNumber     *string            `json:"formatted_phone_number"`
	InternationalPhoneNumber *string            `json:"international_phone_number"`
	Website                  *string            `json:"website"`
	BusinessStatus           *string            `json:"business_status"`
	Types                    []string           `json:"types"`
	OpeningHours             *OpeningHours      `json:"opening_hours"`
	PriceLevel               *int               `json:"price_level"`
	EditorialSummary         *EditorialSummary  `json:"editorial_summary"`
	Photos                   []Photo            `json:"photos"`
	AddressComponents        []AddressComponent `json:"address_components"`
}

// DetailsResponse represents /details/json
type DetailsResponse struct {
	Status       string        `json:"status"`
	Result       *PlaceDetails `json:"result"`
	ErrorMessage string        `json:"error_message,omitempty"`
}
