package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/renthall/video-rental/internal/model"
	"github.com/renthall/video-rental/internal/repository"
	"github.com/renthall/video-rental/internal/validation"
)

// CustomerHandler serves the customer records. All routes run behind
// JWTAuth; mutations additionally behind RequireAdmin.
type CustomerHandler struct {
	Customers *repository.CustomerRepo
}

func NewCustomerHandler(r *repository.CustomerRepo) *CustomerHandler {
	if r == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{Customers: r}
}

// List returns all customers sorted by name.
func (h *CustomerHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	customers, err := h.Customers.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, customers)
}

// Get returns one customer by id.
func (h *CustomerHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "customer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cust, err := h.Customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return notFound(c, "customer")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Create inserts a new customer.
func (h *CustomerHandler) Create(c echo.Context) error {
	var req validation.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cust := &model.Customer{Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
	if err := h.Customers.Create(ctx, cust); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
	}
	return c.JSON(http.StatusCreated, cust)
}

// Update rewrites a customer's fields. Rentals keep the customer
// snapshot taken at checkout and are unaffected.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "customer")
	}
	var req validation.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cust := &model.Customer{ID: id, Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
	if err := h.Customers.Update(ctx, cust); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return notFound(c, "customer")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update customer failed"})
	}
	return c.JSON(http.StatusOK, cust)
}

// Delete removes a customer. Past rentals keep their snapshot of the
// deleted customer.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "customer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Customers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return notFound(c, "customer")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete customer failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
