package model

import "time"

// CustomerSnapshot is the immutable copy of a customer embedded into a
// rental at checkout time. Later edits to the customer row never change
// historical rentals.
type CustomerSnapshot struct {
	ID    uint64 `json:"id"`    // rentals.customer_id
	Name  string `json:"name"`  // rentals.customer_name
	Phone string `json:"phone"` // rentals.customer_phone
}

// MovieSnapshot is the immutable copy of a movie embedded into a rental
// at checkout time. DailyRentalRate is the rate in effect at checkout;
// fee computation on return always uses this value, not the movie's
// current rate. Stock is deliberately not part of the snapshot.
type MovieSnapshot struct {
	ID              uint64  `json:"id"`              // rentals.movie_id
	Title           string  `json:"title"`           // rentals.movie_title
	DailyRentalRate float64 `json:"dailyRentalRate"` // rentals.movie_daily_rental_rate
}

// Rental records one checkout of a movie by a customer. A rental is
// created only by the checkout workflow and mutated only by the return
// workflow, which sets DateReturned and RentalFee together, exactly
// once. A rental with a non-nil DateReturned is terminal.
type Rental struct {
	ID           uint64           `json:"id"`                     // rentals.id
	Customer     CustomerSnapshot `json:"customer"`               // embedded customer snapshot
	Movie        MovieSnapshot    `json:"movie"`                  // embedded movie snapshot
	DateOut      time.Time        `json:"dateOut"`                // rentals.date_out
	DateReturned *time.Time       `json:"dateReturned,omitempty"` // rentals.date_returned (nullable)
	RentalFee    *float64         `json:"rentalFee,omitempty"`    // rentals.rental_fee (nullable)
	CreatedAt    time.Time        `json:"-"`                      // rentals.created_at
}

// Returned reports whether the rental has reached its terminal state.
func (r *Rental) Returned() bool { return r.DateReturned != nil }
