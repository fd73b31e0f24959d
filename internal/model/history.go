package model

import "strings"

// Search queries shorter than this are not worth recording or ranking
const MinSearchQueryLength = 3

// PopularLimit bounds both popularity rankings
const PopularLimit = 10

// PopularSearchWindowDays is how far back the search ranking looks
const PopularSearchWindowDays = 30

// SearchQuery is an append-only record of a search performed by a user.
// Recorded at most once per (user, query) pair.
type SearchQuery struct {
	BaseModel
	UserID *uint  `json:"user_id,omitempty" gorm:"index;uniqueIndex:idx_search_user_query"`
	User   *User  `json:"-" gorm:"foreignKey:UserID"`
	Query  string `json:"query" gorm:"type:varchar(255);not null;uniqueIndex:idx_search_user_query"`
}

// ListingView is an append-only record of a user opening a listing.
// Recorded at most once per (user, listing) pair.
type ListingView struct {
	BaseModel
	UserID    *uint   `json:"user_id,omitempty" gorm:"index;uniqueIndex:idx_view_user_listing"`
	User      *User   `json:"-" gorm:"foreignKey:UserID"`
	ListingID uint    `json:"listing_id" gorm:"not null;index;uniqueIndex:idx_view_user_listing"`
	Listing   Listing `json:"-" gorm:"foreignKey:ListingID"`
}

// SearchRecordable reports whether a query string qualifies for the
// search history: non-blank and longer than 2 characters.
func SearchRecordable(query string) bool {
	return len(strings.TrimSpace(query)) >= MinSearchQueryLength
}
