package types

// Stock images used when an activity leaves an image field blank
const (
	DefaultBgImage           = "../bg-1.png"
	DefaultDetailTopImage    = "../商详图1.jpg"
	DefaultDetailBottomImage = "../商详图2.jpeg"
)

// Activity represents an activity resource as served by the backend
type Activity struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	BgImage           string `json:"bg_image,omitempty"`
	StartTime         string `json:"start_time,omitempty"`
	EndTime           string `json:"end_time,omitempty"`
	Time              string `json:"time,omitempty"` // "start - end", joined by the server
	Tag               string `json:"tag,omitempty"`
	DetailTopImage    string `json:"detail_top_image,omitempty"`
	DetailBottomImage string `json:"detail_bottom_image,omitempty"`
}

// DeleteData is returned by the delete endpoint
type DeleteData struct {
	ID int64 `json:"id"`
}
