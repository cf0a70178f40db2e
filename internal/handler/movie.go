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

// MovieHandler serves the movie catalog. Requests reference a genre by
// id; the handler resolves it and embeds a snapshot of the genre into
// the movie row.
type MovieHandler struct {
	Movies *repository.MovieRepo
	Genres *repository.GenreRepo
}

func NewMovieHandler(m *repository.MovieRepo, g *repository.GenreRepo) *MovieHandler {
	if m == nil || g == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: m, Genres: g}
}

// resolveGenre turns a genreId reference into the snapshot stored on the
// movie. A dangling reference is a client error, not a 404.
func (h *MovieHandler) resolveGenre(ctx context.Context, id uint64) (model.GenreSnapshot, error) {
	g, err := h.Genres.GetByID(ctx, id)
	if err != nil {
		return model.GenreSnapshot{}, err
	}
	return model.GenreSnapshot{ID: g.ID, Name: g.Name}, nil
}

// List returns all movies sorted by title.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get returns one movie by id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movie")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFound(c, "movie")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create inserts a new movie with a fresh genre snapshot.
func (h *MovieHandler) Create(c echo.Context) error {
	var req validation.MovieRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	genre, err := h.resolveGenre(ctx, req.GenreID)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	m := &model.Movie{
		Title:           req.Title,
		Genre:           genre,
		NumberInStock:   req.NumberInStock,
		DailyRentalRate: req.DailyRentalRate,
	}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update rewrites a movie's fields, re-resolving the genre snapshot.
// Open rentals keep the movie snapshot taken at checkout.
func (h *MovieHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movie")
	}
	var req validation.MovieRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	genre, err := h.resolveGenre(ctx, req.GenreID)
	if err != nil {
		if errors.Is(err, repository.ErrGenreNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid genre"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	m := &model.Movie{
		ID:              id,
		Title:           req.Title,
		Genre:           genre,
		NumberInStock:   req.NumberInStock,
		DailyRentalRate: req.DailyRentalRate,
	}
	if err := h.Movies.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFound(c, "movie")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a movie.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return notFound(c, "movie")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return notFound(c, "movie")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
