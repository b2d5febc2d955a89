package errors

import "errors"

var ErrProductNotFound = errors.New("Product not found")
