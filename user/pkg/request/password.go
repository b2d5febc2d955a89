package request

// HashPasswordRequest is the input of the hash-password command.
type HashPasswordRequest struct {
	Password string `validate:"required,min=8"`
	Cost     int    `validate:"min=4,max=31"`
}
