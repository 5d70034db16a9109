package models

// SearchQuery is the cache key for one user's (city, category) search.
// City and category are stored lowercased and trimmed.
// DB: search_queries
type SearchQuery struct {
	BaseModel
	City     string `gorm:"column:city;size:255;not null;index;uniqueIndex:idx_search_queries_city_category_user,priority:1" json:"city"`
	Category string `gorm:"column:category;size:255;not null;index;uniqueIndex:idx_search_queries_city_category_user,priority:2" json:"category"`
	UserID   uint   `gorm:"column:user_id;not null;index;uniqueIndex:idx_search_queries_city_category_user,priority:3" json:"user_id"`

	// Relations
	Places []Place `gorm:"foreignKey:SearchQueryID;constraint:OnDelete:CASCADE" json:"places"`
	User   *User   `gorm:"foreignKey:UserID" json:"-"`
}

func (SearchQuery) TableName() string {
	return "search_queries"
}
