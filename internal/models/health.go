package models

// RuntimeStats is the process summary returned by the health endpoint.
type RuntimeStats struct {
	UptimeSeconds  int64   `json:"uptime_seconds"`
	RequestsTotal  uint64  `json:"requests_total"`
	CacheHitRatio  float64 `json:"cache_hit_ratio"`
	UpstreamErrors uint64  `json:"upstream_errors"`
	Goroutines     int     `json:"goroutines"`
}

// QueueStats summarises the notification queue.
type QueueStats struct {
	Processed uint64 `json:"processed"`
	Retried   uint64 `json:"retried"`
	Exhausted uint64 `json:"exhausted"`
	Pending   int    `json:"pending"`
}

// HealthStatus reports dependency readiness.
type HealthStatus struct {
	Status        string            `json:"status"`
	Dependencies  map[string]string `json:"dependencies,omitempty"`
	Runtime       *RuntimeStats     `json:"runtime,omitempty"`
	Notifications *QueueStats       `json:"notifications,omitempty"`
}
