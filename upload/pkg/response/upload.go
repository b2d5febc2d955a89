package response

type Upload struct {
	Path string `json:"path"`
}
