package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renthall/video-rental/internal/model"
)

// Store is the persistence boundary of the rental workflow. The MySQL
// implementation lives in the repository package; tests substitute
// fakes. Reads that do not participate in the atomic unit (the customer
// snapshot lookup) sit directly on the store, everything else goes
// through a Tx.
type Store interface {
	// CustomerByID returns ErrCustomerNotFound when the
	// customer does not exist.
	CustomerByID(ctx context.Context, id uint64) (*model.Customer, error)
	// Begin opens one atomic unit. The caller must Commit or Rollback.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is one atomic unit of staged writes: either every staged write
// commits or none of them persist.
type Tx interface {
	// MovieForUpdate loads and locks a movie row for the duration of
	// the unit. Returns ErrMovieNotFound when absent.
	MovieForUpdate(ctx context.Context, id uint64) (*model.Movie, error)
	// DecrementStock performs the conditional decrement
	// (number_in_stock > 0). It reports false when no copy was
	// available, which can only happen if stock changed since the
	// locked read.
	DecrementStock(ctx context.Context, movieID uint64) (bool, error)
	// InsertRental stages a new rental row and populates its ID.
	InsertRental(ctx context.Context, rental *model.Rental) error
	// RentalForUpdate loads and locks a rental row. Returns
	// ErrRentalNotFound when absent.
	RentalForUpdate(ctx context.Context, id uint64) (*model.Rental, error)
	// CloseRental sets date_returned and rental_fee together, guarded
	// by date_returned IS NULL. It reports false when the rental was
	// already closed.
	CloseRental(ctx context.Context, id uint64, returnedAt time.Time, fee float64) (bool, error)
	Commit() error
	Rollback() error
}

// Engine orchestrates the checkout and return transitions. It is safe
// for concurrent use; all shared state lives in the store.
type Engine struct {
	store Store
	log   *log.Logger
	now   func() time.Time
}

// New constructs an Engine. The logger must be non-nil; store failures
// during the atomic unit are logged here with their full cause before
// being collapsed into ErrWorkflowAborted.
func New(store Store, logger *log.Logger) *Engine {
	if store == nil || logger == nil {
		panic("nil dependency passed to workflow.New")
	}
	return &Engine{
		store: store,
		log:   logger,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Checkout creates a rental for the given customer and movie and
// decrements the movie's stock by exactly one. Preconditions are checked
// in order, each short-circuiting with a distinct error: malformed ids
// (ErrInvalidReference), missing customer (ErrCustomerNotFound),
// missing movie (ErrMovieNotFound), no stock (ErrOutOfStock).
// The decrement and the rental insert commit as one atomic unit; a
// rental is never observable without its paired decrement and vice
// versa.
func (e *Engine) Checkout(ctx context.Context, customerID, movieID uint64) (*model.Rental, error) {
	if customerID == 0 || movieID == 0 {
		return nil, ErrInvalidReference
	}

	customer, err := e.store.CustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrCustomerNotFound) {
			return nil, err
		}
		return nil, e.abort("load customer", err)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, e.abort("begin checkout", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	movie, err := tx.MovieForUpdate(ctx, movieID)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			return nil, err
		}
		return nil, e.abort("load movie", err)
	}
	if movie.NumberInStock < 1 {
		return nil, ErrOutOfStock
	}

	// Snapshots are taken before the decrement is applied; the rate in
	// the snapshot is the rate in effect at checkout time. Stock is not
	// part of the snapshot.
	rental := &model.Rental{
		Customer: model.CustomerSnapshot{
			ID:    customer.ID,
			Name:  customer.Name,
			Phone: customer.Phone,
		},
		Movie: model.MovieSnapshot{
			ID:              movie.ID,
			Title:           movie.Title,
			DailyRentalRate: movie.DailyRentalRate,
		},
		DateOut: e.now(),
	}

	ok, err := tx.DecrementStock(ctx, movieID)
	if err != nil {
		return nil, e.abort("decrement stock", err)
	}
	if !ok {
		return nil, ErrOutOfStock
	}
	if err := tx.InsertRental(ctx, rental); err != nil {
		return nil, e.abort("insert rental", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, e.abort("commit checkout", err)
	}
	committed = true
	return rental, nil
}

// Return closes a rental: it sets the return date to now and the fee to
// billable days times the snapshot's daily rate. A rental that is
// already closed is rejected with ErrAlreadyReturned and its fee is left
// untouched. Stock is deliberately not restored on return.
func (e *Engine) Return(ctx context.Context, rentalID uint64) (*model.Rental, error) {
	if rentalID == 0 {
		return nil, ErrInvalidReference
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, e.abort("begin return", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rental, err := tx.RentalForUpdate(ctx, rentalID)
	if err != nil {
		if errors.Is(err, ErrRentalNotFound) {
			return nil, err
		}
		return nil, e.abort("load rental", err)
	}
	if rental.Returned() {
		return nil, ErrAlreadyReturned
	}

	returnedAt := e.now()
	fee := Fee(rental.Movie.DailyRentalRate, rental.DateOut, returnedAt)

	ok, err := tx.CloseRental(ctx, rentalID, returnedAt, fee)
	if err != nil {
		return nil, e.abort("close rental", err)
	}
	if !ok {
		// The locked read said open, the guarded update said closed;
		// treat it the same as the precondition failure.
		return nil, ErrAlreadyReturned
	}
	if err := tx.Commit(); err != nil {
		return nil, e.abort("commit return", err)
	}
	committed = true

	rental.DateReturned = &returnedAt
	rental.RentalFee = &fee
	return rental, nil
}

// abort logs the store failure with full context and collapses it into
// the generic sentinel so the cause never reaches a client verbatim.
func (e *Engine) abort(op string, cause error) error {
	e.log.Error("rental workflow aborted", "op", op, "error", cause)
	return fmt.Errorf("%s: %w", op, ErrWorkflowAborted)
}
