package model

import (
	"time"

	"github.com/google/uuid"
)

type SegmentBrief struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	StartKm    float64   `json:"start_km"`
	EndKm      float64   `json:"end_km"`
	StartStake string    `json:"start_stake"`
	EndStake   string    `json:"end_stake"`
}

func NewSegmentBrief(s Segment) SegmentBrief {
	return SegmentBrief{
		ID:         s.ID,
		Name:       s.Name,
		StartKm:    s.StartKm,
		EndKm:      s.EndKm,
		StartStake: s.StartStake(),
		EndStake:   s.EndStake(),
	}
}

type VisitBrief struct {
	ID        uuid.UUID `json:"id"`
	VisitedAt time.Time `json:"visited_at"`
}

// ReportRecord is a report plus the joined context the clients render.
type ReportRecord struct {
	Report     Report        `json:"report"`
	Segment    *SegmentBrief `json:"segment"`
	Visit      *VisitBrief   `json:"visit"`
	PhotoCount int64         `json:"photo_count"`
}

// CandidateGroup lists consolidation-eligible reports of one segment, in the
// order the consolidation form presents them.
type CandidateGroup struct {
	Segment SegmentBrief   `json:"segment"`
	Reports []ReportRecord `json:"reports"`
}

// HeatPoint is one weighted geospatial point of the severity heat map.
type HeatPoint struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight float64 `json:"weight"`
}
