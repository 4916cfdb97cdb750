package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/stockpulse/internal/modules/correlation"
	"github.com/aristath/stockpulse/internal/scheduler"
	"github.com/aristath/stockpulse/internal/server/response"
)

// System status values
const (
	StatusStarting = "starting"
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// JobLister lists scheduled jobs
type JobLister interface {
	Jobs() []scheduler.JobStatus
}

// SnapshotLister lists stored correlation snapshots
type SnapshotLister interface {
	All() []correlation.SnapshotSummary
}

// SystemStatusResponse is the payload of GET /api/system/status
type SystemStatusResponse struct {
	Status        string                        `json:"status"`
	CPUPercent    float64                       `json:"cpu_percent"`
	MemoryPercent float64                       `json:"memory_percent"`
	Goroutines    int                           `json:"goroutines"`
	StartedAt     time.Time                     `json:"started_at"`
	UptimeSeconds int64                         `json:"uptime_seconds"`
	Jobs          []scheduler.JobStatus         `json:"jobs"`
	Snapshots     []correlation.SnapshotSummary `json:"snapshots"`
}

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	startupTime time.Time
	jobs        JobLister
	snapshots   SnapshotLister
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(jobs JobLister, snapshots SnapshotLister, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("handler", "system").Logger(),
		startupTime: time.Now(),
		jobs:        jobs,
		snapshots:   snapshots,
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()
	jobs := h.listJobs()
	snapshots := h.listSnapshots()

	response.Write(w, r, http.StatusOK, SystemStatusResponse{
		Status:        deriveStatus(jobs, snapshots),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		StartedAt:     h.startupTime,
		UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
		Jobs:          jobs,
		Snapshots:     snapshots,
	}, h.log)
}

// HandleJobsStatus handles GET /api/system/jobs
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := h.listJobs()
	response.Write(w, r, http.StatusOK, map[string]interface{}{
		"jobs":  jobs,
		"count": len(jobs),
	}, h.log)
}

// CurrentStatus returns the derived system status
func (h *SystemHandlers) CurrentStatus() string {
	return deriveStatus(h.listJobs(), h.listSnapshots())
}

func (h *SystemHandlers) listJobs() []scheduler.JobStatus {
	if h.jobs == nil {
		return []scheduler.JobStatus{}
	}
	return h.jobs.Jobs()
}

func (h *SystemHandlers) listSnapshots() []correlation.SnapshotSummary {
	if h.snapshots == nil {
		return []correlation.SnapshotSummary{}
	}
	return h.snapshots.All()
}

// deriveStatus is starting until the first snapshot exists and degraded while any job's last run failed
func deriveStatus(jobs []scheduler.JobStatus, snapshots []correlation.SnapshotSummary) string {
	for _, job := range jobs {
		if job.LastError != "" {
			return StatusDegraded
		}
	}
	if len(snapshots) == 0 {
		return StatusStarting
	}
	return StatusHealthy
}

// getSystemStats calculates CPU and RAM usage percentages
// Uses a short interval (100ms) so the API call does not block for long
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
