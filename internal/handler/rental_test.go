package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/renthall/video-rental/internal/model"
	"github.com/renthall/video-rental/internal/repository"
	"github.com/renthall/video-rental/internal/validation"
	"github.com/renthall/video-rental/internal/workflow"
)

// fakeEngine records the ids it was called with and plays back canned
// results.
type fakeEngine struct {
	checkoutCustomer uint64
	checkoutMovie    uint64
	returnRental     uint64

	rental *model.Rental
	err    error
}

func (f *fakeEngine) Checkout(_ context.Context, customerID, movieID uint64) (*model.Rental, error) {
	f.checkoutCustomer, f.checkoutMovie = customerID, movieID
	return f.rental, f.err
}

func (f *fakeEngine) Return(_ context.Context, rentalID uint64) (*model.Rental, error) {
	f.returnRental = rentalID
	return f.rental, f.err
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func newRentalHandler(eng RentalEngine) *RentalHandler {
	return NewRentalHandler(repository.NewRentalRepo(nil), eng, log.New(io.Discard), "")
}

func TestCheckoutSuccess(t *testing.T) {
	out := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	eng := &fakeEngine{rental: &model.Rental{
		ID:       7,
		Customer: model.CustomerSnapshot{ID: 3, Name: "Ada", Phone: "12345"},
		Movie:    model.MovieSnapshot{ID: 5, Title: "Heat!", DailyRentalRate: 2},
		DateOut:  out,
	}}
	h := newRentalHandler(eng)

	rec := postJSON(t, h.Checkout, "/api/rentals", `{"customerId":3,"movieId":5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if eng.checkoutCustomer != 3 || eng.checkoutMovie != 5 {
		t.Fatalf("engine called with (%d,%d), want (3,5)", eng.checkoutCustomer, eng.checkoutMovie)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"id":7`) || !strings.Contains(body, `"Heat!"`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if strings.Contains(body, "dateReturned") {
		t.Fatalf("open rental must omit dateReturned: %s", body)
	}
}

func TestCheckoutValidation(t *testing.T) {
	eng := &fakeEngine{}
	h := newRentalHandler(eng)

	for _, body := range []string{
		`{}`,
		`{"customerId":3}`,
		`{"movieId":5}`,
		`{"customerId":0,"movieId":5}`,
		`not json`,
	} {
		rec := postJSON(t, h.Checkout, "/api/rentals", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
	if eng.checkoutCustomer != 0 || eng.checkoutMovie != 0 {
		t.Fatal("engine must not run on invalid input")
	}
}

func TestCheckoutErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"unknown customer", workflow.ErrCustomerNotFound, http.StatusBadRequest, "invalid customer"},
		{"unknown movie", workflow.ErrMovieNotFound, http.StatusBadRequest, "invalid movie"},
		{"out of stock", workflow.ErrOutOfStock, http.StatusBadRequest, "movie not in stock"},
		{"aborted", workflow.ErrWorkflowAborted, http.StatusInternalServerError, "checkout failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newRentalHandler(&fakeEngine{err: tc.err})
			rec := postJSON(t, h.Checkout, "/api/rentals", `{"customerId":3,"movieId":5}`)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			if !strings.Contains(rec.Body.String(), tc.msg) {
				t.Fatalf("body %q does not contain %q", rec.Body.String(), tc.msg)
			}
		})
	}
}

func TestReturnSuccess(t *testing.T) {
	out := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	back := out.Add(8 * 24 * time.Hour)
	fee := 16.0
	eng := &fakeEngine{rental: &model.Rental{
		ID:           7,
		Customer:     model.CustomerSnapshot{ID: 3, Name: "Ada", Phone: "12345"},
		Movie:        model.MovieSnapshot{ID: 5, Title: "Heat!", DailyRentalRate: 2},
		DateOut:      out,
		DateReturned: &back,
		RentalFee:    &fee,
	}}
	h := newRentalHandler(eng)

	rec := postJSON(t, h.Return, "/api/returns", `{"rentalId":7}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if eng.returnRental != 7 {
		t.Fatalf("engine called with %d, want 7", eng.returnRental)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"rentalFee":16`) || !strings.Contains(body, "dateReturned") {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReturnErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unknown rental", workflow.ErrRentalNotFound, http.StatusNotFound},
		{"already returned", workflow.ErrAlreadyReturned, http.StatusBadRequest},
		{"aborted", workflow.ErrWorkflowAborted, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newRentalHandler(&fakeEngine{err: tc.err})
			rec := postJSON(t, h.Return, "/api/returns", `{"rentalId":7}`)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
		})
	}
}

func TestReturnValidation(t *testing.T) {
	eng := &fakeEngine{}
	h := newRentalHandler(eng)

	rec := postJSON(t, h.Return, "/api/returns", `{"rentalId":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if eng.returnRental != 0 {
		t.Fatal("engine must not run on invalid input")
	}
}
