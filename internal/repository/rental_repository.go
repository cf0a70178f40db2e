package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/renthall/video-rental/internal/model"
)

// RentalRepo provides read access to rentals. Rentals are created only
// through the checkout workflow and closed only through the return
// workflow; both run against the transactional store in rental_store.go.
// This repository never mutates rental rows.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

const rentalCols = `id, customer_id, customer_name, customer_phone,
	movie_id, movie_title, movie_daily_rental_rate,
	date_out, date_returned, rental_fee, created_at`

func scanRental(scan func(dest ...any) error) (*model.Rental, error) {
	var (
		r        model.Rental
		returned sql.NullTime
		fee      sql.NullFloat64
	)
	err := scan(&r.ID, &r.Customer.ID, &r.Customer.Name, &r.Customer.Phone,
		&r.Movie.ID, &r.Movie.Title, &r.Movie.DailyRentalRate,
		&r.DateOut, &returned, &fee, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if returned.Valid {
		t := returned.Time.UTC()
		r.DateReturned = &t
	}
	if fee.Valid {
		f := fee.Float64
		r.RentalFee = &f
	}
	return &r, nil
}

// GetByID fetches a rental by id. Returns ErrRentalNotFound when no row
// exists.
func (r *RentalRepo) GetByID(ctx context.Context, id uint64) (*model.Rental, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+rentalCols+" FROM rentals WHERE id = ? LIMIT 1", id)
	rental, err := scanRental(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return rental, nil
}

// List returns all rentals ordered by checkout date, newest first.
func (r *RentalRepo) List(ctx context.Context) ([]model.Rental, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+rentalCols+" FROM rentals ORDER BY date_out DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rentals := make([]model.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows.Scan)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rental)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rentals, nil
}
