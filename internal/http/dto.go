// Package httpapi provides HTTP handlers and data transfer objects for the rosekv API.
package httpapi

// PutRequest represents a key/value write request.
type PutRequest struct {
	Value string `json:"value"`
}

// PutResponse confirms a write.
type PutResponse struct {
	Key     string `json:"key"`
	Success bool   `json:"success"`
}

// GetResponse represents a key lookup response.
type GetResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status"`
	KeyCount int    `json:"key_count"`
}

// StatsResponse exposes the WAL's running IO counters and segment roster.
type StatsResponse struct {
	TotalBytesWritten  int64    `json:"total_bytes_written"`
	TotalWriteOps      int64    `json:"total_write_ops"`
	BytesSinceLastSync int64    `json:"bytes_since_last_sync"`
	OpsSinceLastSync   int64    `json:"ops_since_last_sync"`
	SyncOps            int64    `json:"sync_ops"`
	Segments           []uint32 `json:"segments"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
