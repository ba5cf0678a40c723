// internal/domain/room/view.go

package room

// Summary is a room as shown on a result card
type Summary struct {
	Room
	AverageRating float64 `json:"averageRating"`
	RatingDisplay string  `json:"ratingDisplay"`
	MapsURL       string  `json:"mapsUrl"`
}

// CommentView is a visible comment with its author resolved
type CommentView struct {
	ID     string `json:"id,omitempty"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Detail is a room as shown on the detail page
type Detail struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Address       string        `json:"address"`
	Telephone     string        `json:"telephone"`
	Price         float64       `json:"price"`
	EmptySlots    int           `json:"emptySlots"`
	Latitude      float64       `json:"latitude"`
	Longitude     float64       `json:"longitude"`
	AverageRating float64       `json:"averageRating"`
	RatingCount   int           `json:"ratingCount"`
	RatingDisplay string        `json:"ratingDisplay"`
	MapsURL       string        `json:"mapsUrl"`
	Comments      []CommentView `json:"comments"`
	CommentCount  int           `json:"commentCount"`
	Message       string        `json:"message,omitempty"`
}

// SearchResponse is the envelope returned for a search
type SearchResponse struct {
	Status      LoadState     `json:"status"`
	Fingerprint string        `json:"fingerprint"`
	Filters     FilterOptions `json:"filters"`
	Count       int           `json:"count"`
	Rooms       []Summary     `json:"rooms"`
	Message     string        `json:"message,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// ErrorResponse is the envelope returned when a request fails
type ErrorResponse struct {
	Status LoadState `json:"status"`
	Error  string    `json:"error"`
}

// NewSummary decorates a room with its derived display fields
func NewSummary(r Room) Summary {
	return Summary{
		Room:          r,
		AverageRating: AverageRating(r),
		RatingDisplay: RatingDisplay(r),
		MapsURL:       MapsURL(r.Latitude, r.Longitude),
	}
}

// NewDetail builds the detail view of a room
func NewDetail(r Room) Detail {
	visible := r.VisibleComments()
	comments := make([]CommentView, 0, len(visible))
	for _, c := range visible {
		comments = append(comments, CommentView{ID: c.ID, Author: c.Author(), Text: c.Text})
	}

	d := Detail{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Telephone:     r.Telephone,
		Price:         r.Price,
		EmptySlots:    r.EmptySlots,
		Latitude:      r.Latitude,
		Longitude:     r.Longitude,
		AverageRating: AverageRating(r),
		RatingCount:   r.RatingCount,
		RatingDisplay: RatingDisplay(r),
		MapsURL:       MapsURL(r.Latitude, r.Longitude),
		Comments:      comments,
		CommentCount:  len(comments),
	}
	if len(comments) == 0 {
		d.Message = MsgNoComments
	}
	return d
}

// NewSearchResponse builds the envelope for a finished search. A failed
// search carries no rooms, never a partial list.
func NewSearchResponse(opts FilterOptions, rooms []Room, err error) SearchResponse {
	resp := SearchResponse{
		Status:      StateOf(len(rooms), err),
		Fingerprint: opts.Fingerprint(),
		Filters:     opts.Normalize(),
		Rooms:       []Summary{},
	}

	if err != nil {
		resp.Error = ListMessage(0, err)
		return resp
	}

	for _, r := range rooms {
		resp.Rooms = append(resp.Rooms, NewSummary(r))
	}
	resp.Count = len(resp.Rooms)
	resp.Message = ListMessage(resp.Count, nil)

	return resp
}

// NewErrorResponse builds the envelope for a failed request
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Status: StateError, Error: message}
}
