package model

// ConfigureRequest uses a pointer so a missing api_key is distinguishable
// from an empty one.
type ConfigureRequest struct {
	APIKey *string `json:"api_key"`
}
