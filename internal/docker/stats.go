package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
)

// StatsSummary is a one-shot resource usage sample of a container.
type StatsSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryUsage    uint64  `json:"memory_usage"`
	MemoryLimit    uint64  `json:"memory_limit"`
	MemoryPercent  float64 `json:"memory_percent"`
	NetworkRxBytes uint64  `json:"network_rx_bytes"`
	NetworkTxBytes uint64  `json:"network_tx_bytes"`
	PIDs           uint64  `json:"pids"`
}

// ContainerStats samples a container's resource usage once.
func (c Client) ContainerStats(ctx context.Context, id string) (StatsSummary, error) {
	response, err := c.client.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return StatsSummary{}, fmt.Errorf("failed to get stats for container %q: %w", id, err)
	}
	defer response.Body.Close()

	var stats container.StatsResponse
	if err := json.NewDecoder(response.Body).Decode(&stats); err != nil {
		return StatsSummary{}, fmt.Errorf("failed to decode stats for container %q: %w", id, err)
	}

	return summarizeStats(stats), nil
}

func summarizeStats(s container.StatsResponse) StatsSummary {
	summary := StatsSummary{
		ID:          truncate(s.ID),
		Name:        strings.TrimPrefix(s.Name, "/"),
		CPUPercent:  cpuPercent(s),
		MemoryUsage: memoryUsage(s.MemoryStats),
		MemoryLimit: s.MemoryStats.Limit,
		PIDs:        s.PidsStats.Current,
	}

	if summary.MemoryLimit > 0 {
		summary.MemoryPercent = float64(summary.MemoryUsage) / float64(summary.MemoryLimit) * 100
	}

	for _, n := range s.Networks {
		summary.NetworkRxBytes += n.RxBytes
		summary.NetworkTxBytes += n.TxBytes
	}

	return summary
}

// cpuPercent follows the docker CLI: usage delta over system delta, scaled by the number
// of online CPUs. Zero when either delta is not positive.
func cpuPercent(s container.StatsResponse) float64 {
	cpuDelta := float64(s.CPUStats.CPUUsage.TotalUsage) - float64(s.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(s.CPUStats.SystemUsage) - float64(s.PreCPUStats.SystemUsage)
	if cpuDelta <= 0 || systemDelta <= 0 {
		return 0
	}

	cpus := float64(s.CPUStats.OnlineCPUs)
	if cpus == 0 {
		cpus = float64(len(s.CPUStats.CPUUsage.PercpuUsage))
	}
	if cpus == 0 {
		cpus = 1
	}

	return cpuDelta / systemDelta * cpus * 100
}

// memoryUsage subtracts the page cache the way the docker CLI does (inactive_file on
// cgroup v2, total_inactive_file on v1).
func memoryUsage(m container.MemoryStats) uint64 {
	cache, ok := m.Stats["inactive_file"]
	if !ok {
		cache = m.Stats["total_inactive_file"]
	}
	if cache < m.Usage {
		return m.Usage - cache
	}
	return m.Usage
}
