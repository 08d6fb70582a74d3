// Package metrics tracks admission statistics per user for dashboards
// and the stats API. It implements the limiter's Recorder interface.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks admission statistics
type Metrics struct {
	totalChecks   atomic.Int64
	allowedChecks atomic.Int64
	deniedChecks  atomic.Int64

	// Per-user stats
	mu        sync.RWMutex
	userStats map[string]*UserStats
	startTime time.Time
}

// UserStats tracks statistics for a specific user
type UserStats struct {
	UserID        string    `json:"user_id"`
	TotalChecks   int64     `json:"total_checks"`
	AllowedChecks int64     `json:"allowed_checks"`
	DeniedChecks  int64     `json:"denied_checks"`
	FirstCheckAt  time.Time `json:"first_check_at"`
	LastCheckAt   time.Time `json:"last_check_at"`
}

// New creates a new metrics tracker
func New() *Metrics {
	return &Metrics{
		userStats: make(map[string]*UserStats),
		startTime: time.Now(),
	}
}

// RecordRequest records one admission check outcome
func (m *Metrics) RecordRequest(userID string, allowed bool) {
	m.totalChecks.Add(1)
	if allowed {
		m.allowedChecks.Add(1)
	} else {
		m.deniedChecks.Add(1)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.userStats[userID]
	if !exists {
		stats = &UserStats{
			UserID:       userID,
			FirstCheckAt: time.Now(),
		}
		m.userStats[userID] = stats
	}

	stats.TotalChecks++
	if allowed {
		stats.AllowedChecks++
	} else {
		stats.DeniedChecks++
	}
	stats.LastCheckAt = time.Now()
}

// Snapshot represents a point-in-time view of metrics
type Snapshot struct {
	TotalChecks   int64        `json:"total_checks"`
	AllowedChecks int64        `json:"allowed_checks"`
	DeniedChecks  int64        `json:"denied_checks"`
	UniqueUsers   int64        `json:"unique_users"`
	TopUsers      []*UserStats `json:"top_users"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     time.Time    `json:"start_time"`
}

// GetSnapshot returns a snapshot of current metrics. The top-users list
// is ordered by denied checks so the noisiest actors surface first.
func (m *Metrics) GetSnapshot() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	topUsers := make([]*UserStats, 0, len(m.userStats))
	for _, stats := range m.userStats {
		clone := *stats
		topUsers = append(topUsers, &clone)
	}

	sort.Slice(topUsers, func(i, j int) bool {
		if topUsers[i].DeniedChecks != topUsers[j].DeniedChecks {
			return topUsers[i].DeniedChecks > topUsers[j].DeniedChecks
		}
		return topUsers[i].TotalChecks > topUsers[j].TotalChecks
	})
	if len(topUsers) > 10 {
		topUsers = topUsers[:10]
	}

	uptime := time.Since(m.startTime)

	return &Snapshot{
		TotalChecks:   m.totalChecks.Load(),
		AllowedChecks: m.allowedChecks.Load(),
		DeniedChecks:  m.deniedChecks.Load(),
		UniqueUsers:   int64(len(m.userStats)),
		TopUsers:      topUsers,
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     m.startTime,
	}
}
