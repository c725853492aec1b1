package workloads

import (
	"context"
	"maps"

	"github.com/augustdev/amphitheatre/internal/logs"
)

// StaticInspector serves a fixed snapshot regardless of the workload.
type StaticInspector struct {
	snapshot Inspection
}

func NewStaticInspector() *StaticInspector {
	return &StaticInspector{snapshot: Inspection{
		SectionEnvironments: {
			"K3S_TOKEN":            "RdqNLMXRiRsHJhmxKurR",
			"K3S_KUBECONFIG_OUTPU": "/output/kubeconfig.yaml",
			"PATH":                 "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin:/bin/aux",
			"CRI_CONFIG_FILE":      "/var/lib/rancher/k3s/agent/etc/crictl.yaml",
		},
		SectionMounts: {
			"/VAR/LIB/CNI":         "/var/lib/docker/volumes/00f49631b07ccd74de44d3047d5f889395ac871e05b622890b6dd788d34a59f4/_data",
			"/VAR/LIB/KUBELET":     "/var/lib/docker/volumes/bc1b16d39a0e204841695de857122412cfdefd0f672af185b1fa43e635397848/_data",
			"/VAR/LIB/RANCHER/K3S": "/var/lib/docker/volumes/a78bcb9f7654701e0cfaef4447ef61ced4864e5b93dee7102ec639afb5cf2e1d/_data",
			"/VAR/LOG":             "/var/lib/docker/volumes/f64c2f2cf81cfde89879f2a17924b31bd2f2e6a6a738f7df949bf6bd57102d25/_data",
		},
		SectionPort: {
			"6443/tcp": "0.0.0.0:42397",
		},
	}}
}

func (s *StaticInspector) Inspect(context.Context, logs.Workload) (Inspection, error) {
	out := make(Inspection, len(s.snapshot))
	for section, values := range s.snapshot {
		out[section] = maps.Clone(values)
	}
	return out, nil
}

type StaticStats struct {
	snapshot Stats
}

func NewStaticStats() *StaticStats {
	return &StaticStats{snapshot: Stats{
		StatCPU:     "1.98%",
		StatMemory:  "65.8MB",
		StatDisk:    "5.3MB / 43.7 MB",
		StatNetwork: "5.7 kB / 3 kB",
	}}
}

func (s *StaticStats) Stats(context.Context, logs.Workload) (Stats, error) {
	return maps.Clone(s.snapshot), nil
}
