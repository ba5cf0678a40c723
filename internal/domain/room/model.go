// internal/domain/room/model.go

package room

import (
	"fmt"
	"strconv"
	"strings"
)

// AnonymousAuthor is shown for comments without an author
const AnonymousAuthor = "Anonymous"

// NoRatingsLabel is shown for rooms nobody has rated yet
const NoRatingsLabel = "Chưa có đánh giá"

// Comment is a user comment attached to a room
type Comment struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	User string `json:"user,omitempty"`
	Text string `json:"text"`
}

// Room represents a rental listing
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	Telephone    string    `json:"telephone"`
	Price        float64   `json:"price"`
	EmptySlots   int       `json:"emptySlots"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	TotalRatings float64   `json:"totalRatings"`
	RatingCount  int       `json:"ratingCount"`
	Comments     []Comment `json:"comments"`
}

// Author returns the display name of the comment author
func (c Comment) Author() string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if user := strings.TrimSpace(c.User); user != "" {
		return user
	}
	return AnonymousAuthor
}

// Valid reports whether the comment has any text to show
func (c Comment) Valid() bool {
	return strings.TrimSpace(c.Text) != ""
}

// VisibleComments returns the valid comments in insertion order
func (r Room) VisibleComments() []Comment {
	visible := make([]Comment, 0, len(r.Comments))
	for _, c := range r.Comments {
		if c.Valid() {
			visible = append(visible, c)
		}
	}
	return visible
}

// AverageRating returns TotalRatings / RatingCount, or 0 for an unrated room
func AverageRating(r Room) float64 {
	if r.RatingCount <= 0 {
		return 0
	}
	return r.TotalRatings / float64(r.RatingCount)
}

// FormatRating renders a rating with one decimal, optionally followed by a star
func FormatRating(rating float64, withStar bool) string {
	formatted := strconv.FormatFloat(rating, 'f', 1, 64)
	if withStar {
		return formatted + " ⭐"
	}
	return formatted
}

// RatingDisplay renders the rating summary shown on cards and the detail page,
// e.g. "4.5 ⭐ (10 lượt)"
func RatingDisplay(r Room) string {
	if r.RatingCount <= 0 {
		return NoRatingsLabel
	}
	return fmt.Sprintf("%s (%d lượt)", FormatRating(AverageRating(r), true), r.RatingCount)
}

// MapsURL builds a Google Maps search link for a coordinate pair
func MapsURL(latitude, longitude float64) string {
	return fmt.Sprintf(
		"https://www.google.com/maps/search/?api=1&query=%s,%s",
		strconv.FormatFloat(latitude, 'f', -1, 64),
		strconv.FormatFloat(longitude, 'f', -1, 64),
	)
}

// LoadState is the outcome of one query as shown to the user
type LoadState string

const (
	StateSuccess LoadState = "success"
	StateEmpty   LoadState = "empty"
	StateError   LoadState = "error"
)

// StateOf resolves a finished query to exactly one load state
func StateOf(count int, err error) LoadState {
	switch {
	case err != nil:
		return StateError
	case count == 0:
		return StateEmpty
	default:
		return StateSuccess
	}
}
