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

// GenreHandler serves the genre catalog. Reads are public; mutations
// run behind JWTAuth and RequireAdmin.
type GenreHandler struct {
	Genres *repository.GenreRepo
}

func NewGenreHandler(g *repository.GenreRepo) *GenreHandler {
	if g == nil {
		panic("nil repository passed to NewGenreHandler")
	}
	return &GenreHandler{Genres: g}
}

// List returns all genres sorted by name.
func (h *GenreHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	genres, err := h.Genres.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, genres)
}

// Get returns one genre by id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "genre")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return notFound(c, "genre")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// Create inserts a new genre.
func (h *GenreHandler) Create(c echo.Context) error {
	var req validation.GenreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	g := &model.Genre{Name: req.Name}
	if err := h.Genres.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create genre failed"})
	}
	return c.JSON(http.StatusCreated, g)
}

// Update renames a genre. Movies keep the genre name they captured at
// write time; renames only affect future movie writes.
func (h *GenreHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "genre")
	}
	var req validation.GenreRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Genres.UpdateName(ctx, id, req.Name); err != nil {
		switch {
		case errors.Is(err, repository.ErrGenreNotFound):
			return notFound(c, "genre")
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "genre already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update genre failed"})
	}

	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, g)
}

// Delete removes a genre.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "genre")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Genres.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return notFound(c, "genre")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete genre failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
