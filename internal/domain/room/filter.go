// internal/domain/room/filter.go

package room

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SortField identifies the primary sort key
type SortField string

const (
	SortByPrice  SortField = "price"
	SortByRating SortField = "rating"
)

// SortDirection identifies the direction of the primary sort key
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// URL query parameter names shared by the search page and the API
const (
	ParamQuery         = "q"
	ParamSortBy        = "sortBy"
	ParamSortDirection = "sortDirection"
	ParamMinPrice      = "minPrice"
	ParamMaxPrice      = "maxPrice"
	ParamMinRating     = "minRating"
)

// FilterOptions describes one room query. It is built from request state,
// consumed by a single search and then discarded.
type FilterOptions struct {
	SortBy        SortField     `json:"sortBy,omitempty"`
	SortDirection SortDirection `json:"sortDirection,omitempty"`
	MinPrice      *float64      `json:"minPrice,omitempty"`
	MaxPrice      *float64      `json:"maxPrice,omitempty"`
	MinRating     *float64      `json:"minRating,omitempty"`
	SearchQuery   string        `json:"q,omitempty"`
}

// Normalize fills in the default sort (price, desc). An unrecognized sort
// field is kept as is so the query falls back to ordering by empty slots.
func (o FilterOptions) Normalize() FilterOptions {
	if o.SortBy == "" {
		o.SortBy = SortByPrice
	}
	if o.SortDirection != SortAsc {
		o.SortDirection = SortDesc
	}
	return o
}

// Values encodes the options as URL query parameters. Absent bounds and an
// empty query are omitted.
func (o FilterOptions) Values() url.Values {
	v := url.Values{}
	if o.SearchQuery != "" {
		v.Set(ParamQuery, o.SearchQuery)
	}
	if o.SortBy != "" {
		v.Set(ParamSortBy, string(o.SortBy))
	}
	if o.SortDirection != "" {
		v.Set(ParamSortDirection, string(o.SortDirection))
	}
	setFloat(v, ParamMinPrice, o.MinPrice)
	setFloat(v, ParamMaxPrice, o.MaxPrice)
	setFloat(v, ParamMinRating, o.MinRating)
	return v
}

// Fingerprint returns a canonical serialization of the normalized options.
// Two option sets with the same fingerprint produce the same result list.
func (o FilterOptions) Fingerprint() string {
	n := o.Normalize()
	n.SearchQuery = strings.TrimSpace(n.SearchQuery)
	// url.Values.Encode sorts by key
	return n.Values().Encode()
}

// ParseValues decodes URL query parameters into filter options. Empty
// values count as absent; malformed numbers are rejected.
func ParseValues(v url.Values) (FilterOptions, error) {
	opts := FilterOptions{
		SortBy:        SortField(strings.TrimSpace(v.Get(ParamSortBy))),
		SortDirection: SortDirection(strings.TrimSpace(v.Get(ParamSortDirection))),
		SearchQuery:   v.Get(ParamQuery),
	}

	var err error
	if opts.MinPrice, err = parseFloat(v, ParamMinPrice); err != nil {
		return FilterOptions{}, err
	}
	if opts.MaxPrice, err = parseFloat(v, ParamMaxPrice); err != nil {
		return FilterOptions{}, err
	}
	if opts.MinRating, err = parseFloat(v, ParamMinRating); err != nil {
		return FilterOptions{}, err
	}

	return opts, nil
}

func parseFloat(v url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s must be a finite number", ErrInvalidFilter, key)
	}
	return &f, nil
}

func setFloat(v url.Values, key string, f *float64) {
	if f == nil {
		return
	}
	v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
}

// Float returns a pointer to f, for building optional bounds
func Float(f float64) *float64 {
	return &f
}
