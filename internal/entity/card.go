package entity

type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	City string  `json:"city,omitempty"`
}

// Card is a candidate profile in the discovery queue. It is replaced wholesale
// on refetch and never mutated in place.
type Card struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Age              int      `json:"age"`
	Gender           string   `json:"gender"`
	Bio              string   `json:"bio"`
	Photos           []string `json:"photos"`
	Location         Location `json:"location"`
	Interests        []string `json:"interests"`
	RelationshipMode string   `json:"relationship_mode"`
}

type CardSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

func (c Card) Summary() CardSummary {
	s := CardSummary{ID: c.ID, Name: c.Name}
	if len(c.Photos) > 0 {
		s.Avatar = c.Photos[0]
	}
	return s
}
