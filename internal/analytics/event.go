// Package analytics records click events off the redirect path and serves
// the read-side aggregation queries for dashboards.
package analytics

import "time"

// TopicClickRecorded is the queue topic the redirect handler publishes to
// and the worker consumes from.
const TopicClickRecorded = "clicks.recorded"

// ClickEvent is the payload handed from the redirect handler to the
// asynchronous recorder.
type ClickEvent struct {
	ShortCode string    `json:"shortCode"`
	IPAddress string    `json:"ipAddress"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Browser   string    `json:"browserName"`
	Device    string    `json:"device"`
	ClickedAt time.Time `json:"clickedAt"`
}
