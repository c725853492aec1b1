package workloads

import (
	"context"
	"fmt"

	"github.com/augustdev/amphitheatre/internal/logs"
	"github.com/augustdev/amphitheatre/internal/prometheus"
	"github.com/dustin/go-humanize"
)

// PrometheusStats reads container usage from cAdvisor series in Prometheus.
type PrometheusStats struct {
	client *prometheus.Client
}

func NewPrometheusStats(client *prometheus.Client) *PrometheusStats {
	return &PrometheusStats{client: client}
}

func (p *PrometheusStats) Stats(ctx context.Context, workload logs.Workload) (Stats, error) {
	usage, err := p.client.GetWorkloadUsage(ctx, workload.Namespace, workload.Pod, workload.Container)
	if err != nil {
		return nil, fmt.Errorf("workload usage for %s: %w", workload, err)
	}
	return renderUsage(usage), nil
}

func renderUsage(u *prometheus.WorkloadUsage) Stats {
	return Stats{
		StatCPU:     fmt.Sprintf("%.2f%%", u.CPUPercent),
		StatMemory:  formatBytes(u.MemoryBytes),
		StatDisk:    formatBytes(u.DiskReadBytes) + " / " + formatBytes(u.DiskWriteBytes),
		StatNetwork: formatBytes(u.NetworkRxBytes) + " / " + formatBytes(u.NetworkTxBytes),
	}
}

func formatBytes(v float64) string {
	if v < 0 {
		v = 0
	}
	return humanize.Bytes(uint64(v))
}
