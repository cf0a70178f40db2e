package model

import "time"

// GenreSnapshot is the by-value copy of a genre embedded into a movie
// when the movie is created or updated.
type GenreSnapshot struct {
	ID   uint64 `json:"id"`   // movies.genre_id
	Name string `json:"name"` // movies.genre_name
}

// Movie represents a rentable title in the catalog.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title (5–255 characters).
//  Genre           – embedded genre snapshot (id + name).
//  NumberInStock   – copies currently available (0–255). Never negative;
//                    only the checkout workflow decrements it.
//  DailyRentalRate – price per rental day (0–255).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Movie struct {
	ID              uint64        `json:"id"`              // movies.id
	Title           string        `json:"title"`           // movies.title
	Genre           GenreSnapshot `json:"genre"`           // movies.genre_id / movies.genre_name
	NumberInStock   uint16        `json:"numberInStock"`   // movies.number_in_stock
	DailyRentalRate float64       `json:"dailyRentalRate"` // movies.daily_rental_rate
	CreatedAt       time.Time     `json:"-"`               // movies.created_at
	UpdatedAt       time.Time     `json:"-"`               // movies.updated_at
}
