package request

import "io"

type Upload struct {
	Folder   string
	Filename string
	Size     int64
	File     io.Reader
}
