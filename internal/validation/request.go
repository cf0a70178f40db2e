package validation

// CustomerRequest is the inbound shape for creating or updating a
// customer.
type CustomerRequest struct {
	Name   string `json:"name" validate:"required,min=3,max=50"`
	Phone  string `json:"phone" validate:"required,numeric,min=5,max=50"`
	IsGold bool   `json:"isGold"`
}

// GenreRequest is the inbound shape for creating or renaming a genre.
type GenreRequest struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

// MovieRequest is the inbound shape for creating or updating a movie.
// GenreID is resolved to a genre snapshot by the handler; the request
// never carries the genre name.
type MovieRequest struct {
	Title           string  `json:"title" validate:"required,min=5,max=255"`
	GenreID         uint64  `json:"genreId" validate:"required,gt=0"`
	NumberInStock   uint16  `json:"numberInStock" validate:"lte=255"`
	DailyRentalRate float64 `json:"dailyRentalRate" validate:"gte=0,lte=255"`
}

// RegisterRequest is the inbound shape for user registration. The
// password length is validated pre-hash; only the bcrypt hash is
// stored.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=50"`
	Email    string `json:"email" validate:"required,email,min=5,max=255"`
	Password string `json:"password" validate:"required,min=5,max=255"`
}

// LoginRequest is the inbound shape for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,min=5,max=255"`
	Password string `json:"password" validate:"required,min=5,max=255"`
}

// RentalRequest is the inbound shape for the checkout workflow.
type RentalRequest struct {
	CustomerID uint64 `json:"customerId" validate:"required,gt=0"`
	MovieID    uint64 `json:"movieId" validate:"required,gt=0"`
}

// ReturnRequest is the inbound shape for the return workflow.
type ReturnRequest struct {
	RentalID uint64 `json:"rentalId" validate:"required,gt=0"`
}
