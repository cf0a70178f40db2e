package workflow

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/renthall/video-rental/internal/model"
)

// fakeStore is an in-memory Store whose transactions hold a mutex from
// Begin until Commit/Rollback, mirroring the row-lock serialization the
// MySQL store gets from SELECT ... FOR UPDATE. Writes are staged in the
// transaction and applied only on a successful commit.
type fakeStore struct {
	mu           sync.Mutex
	customers    map[uint64]*model.Customer
	movies       map[uint64]*model.Movie
	rentals      map[uint64]*model.Rental
	nextRentalID uint64

	beginErr     error
	commitErr    error
	insertErr    error
	decrementErr error
	closeErr     error

	begun      int
	committed  int
	rolledBack int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers: map[uint64]*model.Customer{},
		movies:    map[uint64]*model.Movie{},
		rentals:   map[uint64]*model.Rental{},
	}
}

func (s *fakeStore) CustomerByID(_ context.Context, id uint64) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) Begin(_ context.Context) (Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	s.mu.Lock()
	s.begun++
	return &fakeTx{store: s}, nil
}

type fakeTx struct {
	store *fakeStore
	done  bool

	decrements []uint64
	inserts    []*model.Rental
	closes     map[uint64]closeWrite
}

type closeWrite struct {
	returnedAt time.Time
	fee        float64
}

func (t *fakeTx) MovieForUpdate(_ context.Context, id uint64) (*model.Movie, error) {
	m, ok := t.store.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	cp := *m
	return &cp, nil
}

func (t *fakeTx) DecrementStock(_ context.Context, movieID uint64) (bool, error) {
	if t.store.decrementErr != nil {
		return false, t.store.decrementErr
	}
	m, ok := t.store.movies[movieID]
	if !ok || m.NumberInStock < 1 {
		return false, nil
	}
	t.decrements = append(t.decrements, movieID)
	return true, nil
}

func (t *fakeTx) InsertRental(_ context.Context, rental *model.Rental) error {
	if t.store.insertErr != nil {
		return t.store.insertErr
	}
	t.store.nextRentalID++
	rental.ID = t.store.nextRentalID
	cp := *rental
	t.inserts = append(t.inserts, &cp)
	return nil
}

func (t *fakeTx) RentalForUpdate(_ context.Context, id uint64) (*model.Rental, error) {
	r, ok := t.store.rentals[id]
	if !ok {
		return nil, ErrRentalNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *fakeTx) CloseRental(_ context.Context, id uint64, returnedAt time.Time, fee float64) (bool, error) {
	if t.store.closeErr != nil {
		return false, t.store.closeErr
	}
	r, ok := t.store.rentals[id]
	if !ok || r.DateReturned != nil {
		return false, nil
	}
	if t.closes == nil {
		t.closes = map[uint64]closeWrite{}
	}
	t.closes[id] = closeWrite{returnedAt: returnedAt, fee: fee}
	return true, nil
}

func (t *fakeTx) Commit() error {
	if t.done {
		return errors.New("commit on finished tx")
	}
	t.done = true
	defer t.store.mu.Unlock()
	if t.store.commitErr != nil {
		// Staged writes are discarded.
		return t.store.commitErr
	}
	for _, id := range t.decrements {
		t.store.movies[id].NumberInStock--
	}
	for _, r := range t.inserts {
		cp := *r
		t.store.rentals[r.ID] = &cp
	}
	for id, w := range t.closes {
		ts := w.returnedAt
		fee := w.fee
		t.store.rentals[id].DateReturned = &ts
		t.store.rentals[id].RentalFee = &fee
	}
	t.store.committed++
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.rolledBack++
	t.store.mu.Unlock()
	return nil
}

func newTestEngine(s *fakeStore) *Engine {
	return New(s, log.New(io.Discard))
}

func seed(s *fakeStore) {
	s.customers[1] = &model.Customer{ID: 1, Name: "c12345", Phone: "12345"}
	s.movies[10] = &model.Movie{ID: 10, Title: "m12345", NumberInStock: 2, DailyRentalRate: 2}
}

func TestCheckoutRejectsMalformedReferences(t *testing.T) {
	s := newFakeStore()
	seed(s)
	e := newTestEngine(s)

	if _, err := e.Checkout(context.Background(), 0, 10); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("customer id 0: got %v, want ErrInvalidReference", err)
	}
	if _, err := e.Checkout(context.Background(), 1, 0); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("movie id 0: got %v, want ErrInvalidReference", err)
	}
	if s.begun != 0 {
		t.Fatalf("no transaction should be opened, got %d", s.begun)
	}
}

func TestCheckoutUnknownCustomer(t *testing.T) {
	s := newFakeStore()
	seed(s)
	e := newTestEngine(s)

	_, err := e.Checkout(context.Background(), 99, 10)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("got %v, want ErrCustomerNotFound", err)
	}
	if s.begun != 0 || len(s.rentals) != 0 || s.movies[10].NumberInStock != 2 {
		t.Fatal("checkout with unknown customer must have no side effects")
	}
}

func TestCheckoutUnknownMovie(t *testing.T) {
	s := newFakeStore()
	seed(s)
	e := newTestEngine(s)

	_, err := e.Checkout(context.Background(), 1, 99)
	if !errors.Is(err, ErrMovieNotFound) {
		t.Fatalf("got %v, want ErrMovieNotFound", err)
	}
	if s.rolledBack != 1 || s.committed != 0 {
		t.Fatalf("expected rollback without commit, got rollbacks=%d commits=%d", s.rolledBack, s.committed)
	}
}

func TestCheckoutOutOfStock(t *testing.T) {
	s := newFakeStore()
	seed(s)
	s.movies[10].NumberInStock = 0
	e := newTestEngine(s)

	_, err := e.Checkout(context.Background(), 1, 10)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("got %v, want ErrOutOfStock", err)
	}
	if len(s.rentals) != 0 {
		t.Fatal("no rental may be created for an out-of-stock movie")
	}
	if s.movies[10].NumberInStock != 0 {
		t.Fatalf("stock must stay 0, got %d", s.movies[10].NumberInStock)
	}
	if s.committed != 0 {
		t.Fatal("nothing should have committed")
	}
}

func TestCheckoutCreatesRentalAndDecrementsStockTogether(t *testing.T) {
	s := newFakeStore()
	seed(s)
	e := newTestEngine(s)
	checkoutAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return checkoutAt }

	rental, err := e.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if rental.ID == 0 {
		t.Fatal("rental id not populated")
	}
	if !rental.DateOut.Equal(checkoutAt) {
		t.Fatalf("dateOut = %v, want %v", rental.DateOut, checkoutAt)
	}
	if rental.DateReturned != nil || rental.RentalFee != nil {
		t.Fatal("new rental must have nil dateReturned and rentalFee")
	}
	if rental.Customer.Name != "c12345" || rental.Customer.Phone != "12345" {
		t.Fatalf("bad customer snapshot: %+v", rental.Customer)
	}
	if rental.Movie.Title != "m12345" || rental.Movie.DailyRentalRate != 2 {
		t.Fatalf("bad movie snapshot: %+v", rental.Movie)
	}

	// Both effects committed as one unit.
	if s.movies[10].NumberInStock != 1 {
		t.Fatalf("stock = %d, want 1", s.movies[10].NumberInStock)
	}
	if len(s.rentals) != 1 {
		t.Fatalf("rentals = %d, want 1", len(s.rentals))
	}
	if s.committed != 1 {
		t.Fatalf("commits = %d, want 1", s.committed)
	}
}

func TestCheckoutCommitFailureLeavesNothingObservable(t *testing.T) {
	s := newFakeStore()
	seed(s)
	s.commitErr = errors.New("connection reset")
	e := newTestEngine(s)

	_, err := e.Checkout(context.Background(), 1, 10)
	if !errors.Is(err, ErrWorkflowAborted) {
		t.Fatalf("got %v, want ErrWorkflowAborted", err)
	}
	if len(s.rentals) != 0 || s.movies[10].NumberInStock != 2 {
		t.Fatal("aborted checkout must leave neither the rental nor the decrement observable")
	}
}

func TestCheckoutSnapshotSurvivesCustomerEdit(t *testing.T) {
	s := newFakeStore()
	seed(s)
	e := newTestEngine(s)

	rental, err := e.Checkout(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	s.customers[1].Phone = "99999"
	s.customers[1].Name = "renamed"

	stored := s.rentals[rental.ID]
	if stored.Customer.Phone != "12345" || stored.Customer.Name != "c12345" {
		t.Fatalf("rental snapshot changed after customer edit: %+v", stored.Customer)
	}
}

func TestCheckoutConcurrentSingleCopy(t *testing.T) {
	s := newFakeStore()
	seed(s)
	s.movies[10].NumberInStock = 1
	e := newTestEngine(s)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Checkout(context.Background(), 1, 10)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, outOfStock int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || outOfStock != 1 {
		t.Fatalf("got %d successes and %d out-of-stock, want exactly 1 and 1", ok, outOfStock)
	}
	if s.movies[10].NumberInStock != 0 {
		t.Fatalf("stock = %d, want 0 (never negative)", s.movies[10].NumberInStock)
	}
	if len(s.rentals) != 1 {
		t.Fatalf("rentals = %d, want 1", len(s.rentals))
	}
}

func TestReturnUnknownRental(t *testing.T) {
	s := newFakeStore()
	e := newTestEngine(s)

	_, err := e.Return(context.Background(), 42)
	if !errors.Is(err, ErrRentalNotFound) {
		t.Fatalf("got %v, want ErrRentalNotFound", err)
	}
}

func TestReturnComputesFeeFromSnapshotRate(t *testing.T) {
	s := newFakeStore()
	returnedAt := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	// 7.02 days out at rate 2 bills as 8 days -> fee 16.
	dateOut := returnedAt.Add(-time.Duration(7.02 * 24 * float64(time.Hour)))
	s.rentals[7] = &model.Rental{
		ID:      7,
		Movie:   model.MovieSnapshot{ID: 10, Title: "m12345", DailyRentalRate: 2},
		DateOut: dateOut,
	}
	e := newTestEngine(s)
	e.now = func() time.Time { return returnedAt }

	rental, err := e.Return(context.Background(), 7)
	if err != nil {
		t.Fatalf("return failed: %v", err)
	}
	if rental.RentalFee == nil || *rental.RentalFee != 16 {
		t.Fatalf("fee = %v, want 16", rental.RentalFee)
	}
	if rental.DateReturned == nil || !rental.DateReturned.Equal(returnedAt) {
		t.Fatalf("dateReturned = %v, want %v", rental.DateReturned, returnedAt)
	}

	stored := s.rentals[7]
	if stored.DateReturned == nil || stored.RentalFee == nil {
		t.Fatal("dateReturned and rentalFee must be persisted together")
	}
	if *stored.RentalFee != 16 {
		t.Fatalf("persisted fee = %v, want 16", *stored.RentalFee)
	}
}

func TestReturnAlreadyReturned(t *testing.T) {
	s := newFakeStore()
	closedAt := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	fee := 6.0
	s.rentals[7] = &model.Rental{
		ID:           7,
		Movie:        model.MovieSnapshot{ID: 10, DailyRentalRate: 3},
		DateOut:      closedAt.Add(-48 * time.Hour),
		DateReturned: &closedAt,
		RentalFee:    &fee,
	}
	e := newTestEngine(s)

	_, err := e.Return(context.Background(), 7)
	if !errors.Is(err, ErrAlreadyReturned) {
		t.Fatalf("got %v, want ErrAlreadyReturned", err)
	}
	if *s.rentals[7].RentalFee != 6 || !s.rentals[7].DateReturned.Equal(closedAt) {
		t.Fatal("second return must not touch the stored fee or return date")
	}
	if s.committed != 0 {
		t.Fatal("rejected return must not commit")
	}
}

func TestReturnCommitFailure(t *testing.T) {
	s := newFakeStore()
	s.rentals[7] = &model.Rental{
		ID:      7,
		Movie:   model.MovieSnapshot{ID: 10, DailyRentalRate: 3},
		DateOut: time.Now().UTC().Add(-48 * time.Hour),
	}
	s.commitErr = errors.New("connection reset")
	e := newTestEngine(s)

	_, err := e.Return(context.Background(), 7)
	if !errors.Is(err, ErrWorkflowAborted) {
		t.Fatalf("got %v, want ErrWorkflowAborted", err)
	}
	if s.rentals[7].DateReturned != nil || s.rentals[7].RentalFee != nil {
		t.Fatal("aborted return must leave the rental open")
	}
}
