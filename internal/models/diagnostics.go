package models

import "time"

// ProcessSample is one resource sample of the keeper process.
type ProcessSample struct {
	Provider   string    `json:"provider"`
	Timestamp  time.Time `json:"timestamp"`
	Pid        int32     `json:"pid"`
	CPUPercent float64   `json:"cpuPercent"`
	RSS        uint64    `json:"rss"`
	VMS        uint64    `json:"vms"`
	Threads    int32     `json:"threads"`
	Goroutines int       `json:"goroutines"`
}

type DiagnosticsResponse struct {
	Enabled bool            `json:"enabled"`
	Samples []ProcessSample `json:"samples"`
}
