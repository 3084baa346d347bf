package models

// DemandSummary is the per-class outcome of an aggregation pass.
type DemandSummary struct {
	ClassID       string       `json:"classId"`
	InterestCount int          `json:"interestCount"`
	Capacity      int          `json:"capacity"`
	DemandStatus  DemandStatus `json:"demandStatus"`
}
