package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/renthall/video-rental/internal/model"
	"github.com/renthall/video-rental/internal/workflow"
)

// RentalStore is the MySQL implementation of the rental workflow's
// transactional store. It is the only code path that writes to
// rentals or touches movies.number_in_stock; all such mutation is
// serialized through the checkout/return transactions.
type RentalStore struct {
	db        *sql.DB
	customers *CustomerRepo
}

// NewRentalStore binds the workflow store to the given database.
func NewRentalStore(db *sql.DB, customers *CustomerRepo) *RentalStore {
	return &RentalStore{db: db, customers: customers}
}

// CustomerByID loads the customer whose snapshot is embedded at
// checkout. It translates the repository sentinel into the workflow's.
func (s *RentalStore) CustomerByID(ctx context.Context, id uint64) (*model.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, workflow.ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

// Begin opens a database transaction wrapped as a workflow.Tx.
func (s *RentalStore) Begin(ctx context.Context) (workflow.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &rentalTx{tx: tx}, nil
}

// rentalTx adapts *sql.Tx to the workflow's atomic-unit contract.
type rentalTx struct {
	tx *sql.Tx
}

// MovieForUpdate locks the movie row until the unit commits or aborts,
// so the stock check and the decrement observe the same row state.
func (t *rentalTx) MovieForUpdate(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, genre_id, genre_name, number_in_stock, daily_rental_rate,
	                  created_at, updated_at
	           FROM movies WHERE id = ? FOR UPDATE`
	var m model.Movie
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Genre.ID, &m.Genre.Name,
		&m.NumberInStock, &m.DailyRentalRate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// DecrementStock performs the compare-and-swap decrement. The guard
// keeps number_in_stock from ever going negative even without the row
// lock.
func (t *rentalTx) DecrementStock(ctx context.Context, movieID uint64) (bool, error) {
	const q = `UPDATE movies SET number_in_stock = number_in_stock - 1
	           WHERE id = ? AND number_in_stock > 0`
	res, err := t.tx.ExecContext(ctx, q, movieID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InsertRental stages the rental row and populates the generated ID.
func (t *rentalTx) InsertRental(ctx context.Context, rental *model.Rental) error {
	const q = `INSERT INTO rentals
	           (customer_id, customer_name, customer_phone,
	            movie_id, movie_title, movie_daily_rental_rate, date_out)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		rental.Customer.ID, rental.Customer.Name, rental.Customer.Phone,
		rental.Movie.ID, rental.Movie.Title, rental.Movie.DailyRentalRate,
		rental.DateOut)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rental.ID = uint64(id)
	return nil
}

// RentalForUpdate locks the rental row so the already-returned check
// and the close write observe the same state.
func (t *rentalTx) RentalForUpdate(ctx context.Context, id uint64) (*model.Rental, error) {
	const q = `SELECT id, customer_id, customer_name, customer_phone,
	                  movie_id, movie_title, movie_daily_rental_rate,
	                  date_out, date_returned, rental_fee, created_at
	           FROM rentals WHERE id = ? FOR UPDATE`
	var (
		r        model.Rental
		returned sql.NullTime
		fee      sql.NullFloat64
	)
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&r.ID, &r.Customer.ID, &r.Customer.Name, &r.Customer.Phone,
		&r.Movie.ID, &r.Movie.Title, &r.Movie.DailyRentalRate,
		&r.DateOut, &returned, &fee, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrRentalNotFound
		}
		return nil, err
	}
	if returned.Valid {
		ts := returned.Time.UTC()
		r.DateReturned = &ts
	}
	if fee.Valid {
		f := fee.Float64
		r.RentalFee = &f
	}
	return &r, nil
}

// CloseRental writes date_returned and rental_fee in one statement,
// guarded so a rental can only ever be closed once.
func (t *rentalTx) CloseRental(ctx context.Context, id uint64, returnedAt time.Time, fee float64) (bool, error) {
	const q = `UPDATE rentals SET date_returned = ?, rental_fee = ?
	           WHERE id = ? AND date_returned IS NULL`
	res, err := t.tx.ExecContext(ctx, q, returnedAt, fee, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *rentalTx) Commit() error   { return t.tx.Commit() }
func (t *rentalTx) Rollback() error { return t.tx.Rollback() }
