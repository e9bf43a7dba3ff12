package types

// CreateActivityRequest represents a request to create an activity
type CreateActivityRequest struct {
	Title             string `json:"title" validate:"required"`
	BgImage           string `json:"bg_image"`
	StartTime         string `json:"start_time"`
	EndTime           string `json:"end_time"`
	DetailTopImage    string `json:"detail_top_image"`
	DetailBottomImage string `json:"detail_bottom_image"`
}

// ApplyImageDefaults fills blank image fields with the site's stock images
func (r *CreateActivityRequest) ApplyImageDefaults() {
	if r.BgImage == "" {
		r.BgImage = DefaultBgImage
	}
	if r.DetailTopImage == "" {
		r.DetailTopImage = DefaultDetailTopImage
	}
	if r.DetailBottomImage == "" {
		r.DetailBottomImage = DefaultDetailBottomImage
	}
}
