package rest

import (
	"encoding/json"

	"github.com/Limgrow-internship/intern001-dating-app-sub000/internal/entity"
	"github.com/sirupsen/logrus"
)

// cardDTO keeps photos raw so one malformed photo does not sink the card.
type cardDTO struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Age              int               `json:"age"`
	Gender           string            `json:"gender"`
	Bio              string            `json:"bio"`
	Photos           []json.RawMessage `json:"photos"`
	Location         entity.Location   `json:"location"`
	Interests        []string          `json:"interests"`
	RelationshipMode string            `json:"relationship_mode"`
}

type photoObject struct {
	URL string `json:"url"`
}

// decodePhoto accepts either a bare URL string or {"url": "..."}.
func decodePhoto(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}
	var obj photoObject
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.URL, obj.URL != ""
	}
	return "", false
}

func (d cardDTO) toEntity() entity.Card {
	photos := make([]string, 0, len(d.Photos))
	for _, raw := range d.Photos {
		if url, ok := decodePhoto(raw); ok {
			photos = append(photos, url)
		}
	}
	return entity.Card{
		ID:               d.ID,
		Name:             d.Name,
		Age:              d.Age,
		Gender:           d.Gender,
		Bio:              d.Bio,
		Photos:           photos,
		Location:         d.Location,
		Interests:        d.Interests,
		RelationshipMode: d.RelationshipMode,
	}
}

// decodeEach decodes every element on its own and drops the ones that fail.
func decodeEach[T any](raws []json.RawMessage, log logrus.FieldLogger, kind string) []T {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			log.WithError(err).WithField("index", i).Warnf("skipping malformed %s", kind)
			continue
		}
		out = append(out, v)
	}
	return out
}

func decodeCards(raws []json.RawMessage, log logrus.FieldLogger) []entity.Card {
	dtos := decodeEach[cardDTO](raws, log, "card")
	cards := make([]entity.Card, 0, len(dtos))
	for _, d := range dtos {
		if d.ID == "" {
			log.Warn("skipping card without id")
			continue
		}
		cards = append(cards, d.toEntity())
	}
	return cards
}

type uploadResponse struct {
	URL string `json:"url"`
}
