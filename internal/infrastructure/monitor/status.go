package monitor

import "time"

type Status struct {
	Driver    string    `json:"driver"`
	Storage   bool      `json:"storage"`
	LastError string    `json:"last_error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}
