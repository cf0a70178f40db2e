package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/renthall/video-rental/internal/model"
	"github.com/renthall/video-rental/internal/queue"
	"github.com/renthall/video-rental/internal/repository"
	queue_publisher "github.com/renthall/video-rental/internal/service"
	"github.com/renthall/video-rental/internal/validation"
	"github.com/renthall/video-rental/internal/workflow"
)

// RentalEngine is the slice of the workflow engine the handler needs.
// Tests substitute a fake; production wires *workflow.Engine.
type RentalEngine interface {
	Checkout(ctx context.Context, customerID, movieID uint64) (*model.Rental, error)
	Return(ctx context.Context, rentalID uint64) (*model.Rental, error)
}

// RentalHandler serves the rental history and drives the checkout and
// return workflows.
type RentalHandler struct {
	Rentals *repository.RentalRepo
	Engine  RentalEngine
	Log     *log.Logger
	AMQPURL string // empty disables event publishing
}

func NewRentalHandler(r *repository.RentalRepo, e RentalEngine, logger *log.Logger, amqpURL string) *RentalHandler {
	if r == nil || e == nil || logger == nil {
		panic("nil dependency passed to NewRentalHandler")
	}
	return &RentalHandler{Rentals: r, Engine: e, Log: logger, AMQPURL: amqpURL}
}

// List returns all rentals, most recent checkout first.
func (h *RentalHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rentals, err := h.Rentals.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rentals)
}

// Get returns one rental by id.
func (h *RentalHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "rental")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	r, err := h.Rentals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return notFound(c, "rental")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, r)
}

// Checkout creates a rental and decrements the movie's stock as one
// atomic unit. On success a rental.checkout event is published; broker
// failures are logged and do not fail the request.
func (h *RentalHandler) Checkout(c echo.Context) error {
	var req validation.RentalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rental, err := h.Engine.Checkout(ctx, req.CustomerID, req.MovieID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrInvalidReference):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer or movie"})
		case errors.Is(err, workflow.ErrCustomerNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer"})
		case errors.Is(err, workflow.ErrMovieNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie"})
		case errors.Is(err, workflow.ErrOutOfStock):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie not in stock"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}

	h.publishCheckout(c, rental)
	return c.JSON(http.StatusCreated, rental)
}

// Return closes a rental and computes its fee from the snapshot rate.
func (h *RentalHandler) Return(c echo.Context) error {
	var req validation.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rental, err := h.Engine.Return(ctx, req.RentalID)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrInvalidReference), errors.Is(err, workflow.ErrRentalNotFound):
			return notFound(c, "rental")
		case errors.Is(err, workflow.ErrAlreadyReturned):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rental already returned"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "return failed"})
	}
	return c.JSON(http.StatusOK, rental)
}

// publishCheckout emits the rental.checkout event in the background. The
// rental is already committed, so a broker outage only costs the event.
func (h *RentalHandler) publishCheckout(c echo.Context, rental *model.Rental) {
	if h.AMQPURL == "" {
		return
	}
	uid, _ := getUserID(c)
	ev := queue.RentalCheckedOutEvent{
		RentalID:        rental.ID,
		CustomerID:      rental.Customer.ID,
		CustomerName:    rental.Customer.Name,
		CustomerPhone:   rental.Customer.Phone,
		MovieID:         rental.Movie.ID,
		MovieTitle:      rental.Movie.Title,
		DailyRentalRate: rental.Movie.DailyRentalRate,
		DateOut:         rental.DateOut.UTC().Format(time.RFC3339),
		CheckedOutBy:    uid,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue_publisher.PublishRentalCheckedOut(ctx, h.AMQPURL, ev, h.Log); err != nil {
			h.Log.Warn("rental.checkout event not published", "rental_id", ev.RentalID, "error", err)
		}
	}()
}
