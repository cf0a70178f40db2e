package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/renthall/video-rental/internal/model"
)

// MovieRepo encapsulates database queries for the movie catalog. Plain
// CRUD operations live here; the stock decrement performed during
// checkout is owned exclusively by the workflow store (rental_store.go)
// so that no other code path can touch number_in_stock.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = "id, title, genre_id, genre_name, number_in_stock, daily_rental_rate, created_at, updated_at"

func scanMovieRow(scan func(dest ...any) error) (*model.Movie, error) {
	var m model.Movie
	err := scan(&m.ID, &m.Title, &m.Genre.ID, &m.Genre.Name,
		&m.NumberInStock, &m.DailyRentalRate, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new movie with its embedded genre snapshot and
// populates the generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, genre_id, genre_name, number_in_stock, daily_rental_rate)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a movie by id. Returns ErrMovieNotFound when no row
// exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+movieCols+" FROM movies WHERE id = ? LIMIT 1", id)
	m, err := scanMovieRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns all movies ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+movieCols+" FROM movies ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovieRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// Update rewrites a movie's fields, including a fresh genre snapshot.
// Historical rentals keep their own movie snapshot and are unaffected.
func (r *MovieRepo) Update(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE movies SET title = ?, genre_id = ?, genre_name = ?,
		        number_in_stock = ?, daily_rental_rate = ?
		 WHERE id = ?`,
		m.Title, m.Genre.ID, m.Genre.Name, m.NumberInStock, m.DailyRentalRate, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a movie by id. Returns ErrMovieNotFound when the row
// did not exist.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
