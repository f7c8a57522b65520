package tessplay

import (
	"fmt"
	"time"
)

// HealthStatus represents the overall health state of a component.
type HealthStatus string

const (
	// HealthOK indicates the component is functioning normally.
	HealthOK HealthStatus = "ok"
	// HealthDegraded indicates partial functionality or non-critical issues.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates the component is not functioning.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck contains the health status of a Player and its components.
type HealthCheck struct {
	Status     HealthStatus
	Timestamp  time.Time
	Uptime     time.Duration
	Components map[string]ComponentHealth
	Message    string
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  HealthStatus
	Message string
}

// IsHealthy returns true if the overall status is HealthOK.
func (h HealthCheck) IsHealthy() bool {
	return h.Status == HealthOK
}

// IsDegraded returns true if the overall status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool {
	return h.Status == HealthDegraded
}

// IsUnhealthy returns true if the overall status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool {
	return h.Status == HealthUnhealthy
}

// Health reports on the loaded bundle, the file watcher and recent errors.
// It is safe to call from any goroutine.
func (p *Player) Health() HealthCheck {
	now := time.Now()
	components := make(map[string]ComponentHealth)

	p.mu.Lock()
	closed, watching, lastErr := p.closed, p.watcher != nil, p.lastError
	var artboards int
	if p.file != nil {
		artboards = p.file.ArtboardCount()
	}
	p.mu.Unlock()

	switch {
	case closed:
		components["bundle"] = ComponentHealth{HealthUnhealthy, "player closed"}
	case artboards == 0:
		components["bundle"] = ComponentHealth{HealthUnhealthy, "no bundle loaded"}
	default:
		components["bundle"] = ComponentHealth{HealthOK, fmt.Sprintf("%s: %d artboards", p.source, artboards)}
	}

	if p.opts.Watch {
		if watching && !closed {
			components["watcher"] = ComponentHealth{HealthOK, "watching for changes"}
		} else {
			components["watcher"] = ComponentHealth{HealthDegraded, "watcher not running"}
		}
	}

	if lastErr != nil {
		components["errors"] = ComponentHealth{HealthDegraded, lastErr.Error()}
	} else {
		components["errors"] = ComponentHealth{HealthOK, "no recent errors"}
	}

	status, message := HealthOK, "all components healthy"
	for _, c := range components {
		if c.Status == HealthUnhealthy {
			status, message = HealthUnhealthy, "bundle not playable"
			break
		}
		if c.Status == HealthDegraded {
			status, message = HealthDegraded, "some components degraded"
		}
	}

	return HealthCheck{
		Status:     status,
		Timestamp:  now,
		Uptime:     now.Sub(p.started),
		Components: components,
		Message:    message,
	}
}
