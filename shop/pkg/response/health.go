package response

type Health struct {
	Ok   bool   `json:"ok"`
	Mode string `json:"mode"`
	Time string `json:"time"`
}
