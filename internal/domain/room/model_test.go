package room

import (
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(Room{TotalRatings: 12, RatingCount: 0}))
	assert.Equal(t, 4.5, AverageRating(Room{TotalRatings: 45, RatingCount: 10}))
}

func TestRatingDisplay(t *testing.T) {
	assert.Equal(t, NoRatingsLabel, RatingDisplay(Room{}))
	assert.Equal(t, "4.5 ⭐ (10 lượt)", RatingDisplay(Room{TotalRatings: 45, RatingCount: 10}))
	assert.Equal(t, "3.0", FormatRating(3, false))
}

func TestVisibleCommentsKeepsOrderAndDropsEmpty(t *testing.T) {
	r := Room{Comments: []Comment{
		{Name: "Lan", Text: "Phòng sạch"},
		{Name: "Minh", Text: "   "},
		{User: "tuan", Text: "Gần trường"},
		{Text: "Ổn"},
	}}

	visible := r.VisibleComments()
	require.Len(t, visible, 3)
	assert.Equal(t, "Lan", visible[0].Author())
	assert.Equal(t, "tuan", visible[1].Author())
	assert.Equal(t, AnonymousAuthor, visible[2].Author())
}

func TestMapsURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=16.0544,108.2022",
		MapsURL(16.0544, 108.2022),
	)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=0,0", MapsURL(0, 0))
}

func TestParseValues(t *testing.T) {
	v := url.Values{}
	v.Set("q", "đà nẵng")
	v.Set("sortBy", "rating")
	v.Set("sortDirection", "asc")
	v.Set("minPrice", "1000000")
	v.Set("maxPrice", "")
	v.Set("minRating", "3.5")

	opts, err := ParseValues(v)
	require.NoError(t, err)
	assert.Equal(t, SortByRating, opts.SortBy)
	assert.Equal(t, SortAsc, opts.SortDirection)
	assert.Equal(t, "đà nẵng", opts.SearchQuery)
	require.NotNil(t, opts.MinPrice)
	assert.Equal(t, 1000000.0, *opts.MinPrice)
	assert.Nil(t, opts.MaxPrice)
	require.NotNil(t, opts.MinRating)
	assert.Equal(t, 3.5, *opts.MinRating)

	// round trip through the URL shape
	again, err := ParseValues(opts.Values())
	require.NoError(t, err)
	assert.Equal(t, opts, again)
}

func TestParseValuesRejectsBadNumbers(t *testing.T) {
	_, err := ParseValues(url.Values{"minRating": {"five"}})
	assert.True(t, errors.Is(err, ErrInvalidFilter))

	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "infinity", "1e400"} {
		_, err := ParseValues(url.Values{ParamMinPrice: {raw}})
		assert.ErrorIs(t, err, ErrInvalidFilter, raw)

		_, err = ParseValues(url.Values{ParamMaxPrice: {raw}, ParamMinPrice: {"1000"}})
		assert.ErrorIs(t, err, ErrInvalidFilter, raw)
	}
}

func TestFingerprintNormalizesDefaults(t *testing.T) {
	a := FilterOptions{SearchQuery: " hue "}
	b := FilterOptions{SortBy: SortByPrice, SortDirection: SortDesc, SearchQuery: "hue"}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := b
	c.MinPrice = Float(0)
	assert.NotEqual(t, b.Fingerprint(), c.Fingerprint())
}

func TestFetchErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("search: %w", &FetchError{Op: "list rooms", Err: cause})

	assert.True(t, errors.Is(err, ErrFetchFailure))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateError, StateOf(3, errors.New("x")))
	assert.Equal(t, StateEmpty, StateOf(0, nil))
	assert.Equal(t, StateSuccess, StateOf(1, nil))
}
