package models

// ImageEvent is published after image mutations. Delivery is best effort;
// a publish failure never fails the triggering request.
type ImageEvent struct {
	EventID   string `json:"event_id"`
	ImagePath string `json:"image_path"`
	ImageName string `json:"image_name"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Owner     string `json:"owner"`
}
