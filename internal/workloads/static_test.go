package workloads

import (
	"context"
	"testing"

	"github.com/augustdev/amphitheatre/internal/logs"
)

func TestStaticInspector_ReturnsIndependentCopies(t *testing.T) {
	i := NewStaticInspector()
	ctx := context.Background()

	first, err := i.Inspect(ctx, logs.Workload{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	first[SectionPort]["6443/tcp"] = "tampered"

	second, err := i.Inspect(ctx, logs.Workload{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if got := second[SectionPort]["6443/tcp"]; got != "0.0.0.0:42397" {
		t.Errorf("snapshot mutated through a returned copy: %q", got)
	}
}

func TestStaticStats(t *testing.T) {
	stats, err := NewStaticStats().Stats(context.Background(), logs.Workload{})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	for _, label := range []string{StatCPU, StatMemory, StatDisk, StatNetwork} {
		if stats[label] == "" {
			t.Errorf("missing %q", label)
		}
	}
}
