package httpapi

import "net/http"

// HandleHealth returns API health status and the live key count.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:   "healthy",
		KeyCount: h.store.Len(),
	}

	h.logger.Debug().Int("key_count", resp.KeyCount).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}

// HandleStats returns the WAL's running IO counters and segment roster.
func (h *Handler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.store.Stats()
	ids := h.store.SegmentIDs()

	segments := make([]uint32, len(ids))
	for i, id := range ids {
		segments[i] = uint32(id)
	}

	resp := StatsResponse{
		TotalBytesWritten:  stats.TotalBytesWritten,
		TotalWriteOps:      stats.TotalWriteOps,
		BytesSinceLastSync: stats.BytesSinceLastSync,
		OpsSinceLastSync:   stats.OpsSinceLastSync,
		SyncOps:            stats.SyncOps,
		Segments:           segments,
	}

	writeJSON(w, http.StatusOK, resp)
}
