// Package queue defines message payloads exchanged over the message broker.
package queue

// RentalCheckedOutEvent is published after a checkout commits. It carries
// the rental snapshot so downstream consumers can log or notify without
// querying the primary database. EventID deduplicates redeliveries.
type RentalCheckedOutEvent struct {
	EventID         string  `json:"event_id"`
	RentalID        uint64  `json:"rental_id"`
	CustomerID      uint64  `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	MovieID         uint64  `json:"movie_id"`
	MovieTitle      string  `json:"movie_title"`
	DailyRentalRate float64 `json:"daily_rental_rate"`
	DateOut         string  `json:"date_out"`
	CheckedOutBy    uint64  `json:"checked_out_by"`
}
