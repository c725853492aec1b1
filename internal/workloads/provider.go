package workloads

import (
	"context"

	"github.com/augustdev/amphitheatre/internal/logs"
)

type Config struct {
	// Inspector selects the inspect provider: "static" or "kubernetes".
	Inspector string
}

const (
	InspectorStatic     = "static"
	InspectorKubernetes = "kubernetes"
)

// Inspection groups descriptive data by section: "environments", "mounts",
// "port".
type Inspection map[string]map[string]string

// Stats maps a resource-usage label to its rendered figure.
type Stats map[string]string

type Inspector interface {
	Inspect(ctx context.Context, workload logs.Workload) (Inspection, error)
}

type StatsProvider interface {
	Stats(ctx context.Context, workload logs.Workload) (Stats, error)
}

const (
	SectionEnvironments = "environments"
	SectionMounts       = "mounts"
	SectionPort         = "port"

	StatCPU     = "CPU USAGE"
	StatMemory  = "MEMORY USAGE"
	StatDisk    = "DISK READ/WRITE"
	StatNetwork = "NETWORK I/O"
)
