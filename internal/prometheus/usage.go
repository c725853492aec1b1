package prometheus

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// WorkloadUsage holds point-in-time resource figures for one pod.
// Disk and network figures are cumulative byte counters.
type WorkloadUsage struct {
	CPUPercent     float64
	MemoryBytes    float64
	DiskReadBytes  float64
	DiskWriteBytes float64
	NetworkRxBytes float64
	NetworkTxBytes float64
}

func podSelector(namespace, pod, container string) string {
	parts := []string{
		fmt.Sprintf("namespace=%q", namespace),
		fmt.Sprintf("pod=%q", pod),
	}
	if container != "" {
		parts = append(parts, fmt.Sprintf("container=%q", container))
	} else {
		parts = append(parts, `container!=""`)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (c *Client) GetWorkloadUsage(ctx context.Context, namespace, pod, container string) (*WorkloadUsage, error) {
	sel := podSelector(namespace, pod, container)
	// Network counters are recorded on the pod sandbox, not on containers.
	netSel := fmt.Sprintf("{namespace=%q, pod=%q}", namespace, pod)

	queries := []struct {
		name  string
		query string
		dst   func(*WorkloadUsage) *float64
	}{
		{"cpu", fmt.Sprintf("sum(rate(container_cpu_usage_seconds_total%s[5m])) * 100", sel), func(u *WorkloadUsage) *float64 { return &u.CPUPercent }},
		{"memory", fmt.Sprintf("sum(container_memory_working_set_bytes%s)", sel), func(u *WorkloadUsage) *float64 { return &u.MemoryBytes }},
		{"disk read", fmt.Sprintf("sum(container_fs_reads_bytes_total%s)", sel), func(u *WorkloadUsage) *float64 { return &u.DiskReadBytes }},
		{"disk write", fmt.Sprintf("sum(container_fs_writes_bytes_total%s)", sel), func(u *WorkloadUsage) *float64 { return &u.DiskWriteBytes }},
		{"network rx", fmt.Sprintf("sum(container_network_receive_bytes_total%s)", netSel), func(u *WorkloadUsage) *float64 { return &u.NetworkRxBytes }},
		{"network tx", fmt.Sprintf("sum(container_network_transmit_bytes_total%s)", netSel), func(u *WorkloadUsage) *float64 { return &u.NetworkTxBytes }},
	}

	var result WorkloadUsage
	g, gCtx := errgroup.WithContext(ctx)

	for _, q := range queries {
		dst := q.dst(&result)
		g.Go(func() error {
			v, err := c.Scalar(gCtx, q.query)
			if err != nil {
				return fmt.Errorf("%s query: %w", q.name, err)
			}
			*dst = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("metrics temporarily unavailable: %w", err)
	}

	return &result, nil
}
