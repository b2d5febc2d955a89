package errors

import "errors"

var (
	ErrNoFile             = errors.New("No file uploaded")
	ErrFolderNotAllowed   = errors.New("Folder not allowed")
	ErrUnsupportedType    = errors.New("Only image uploads are allowed")
	ErrFileTooLarge       = errors.New("File too large")
	ErrUnknownBackend     = errors.New("unknown upload backend")
	ErrObjectAlreadyExist = errors.New("upload already exists")
)
