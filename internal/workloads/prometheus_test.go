package workloads

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/augustdev/amphitheatre/internal/logs"
	"github.com/augustdev/amphitheatre/internal/prometheus"
)

func TestRenderUsage(t *testing.T) {
	got := renderUsage(&prometheus.WorkloadUsage{
		CPUPercent:     1.984,
		MemoryBytes:    65_800_000,
		DiskReadBytes:  5_300_000,
		DiskWriteBytes: 43_700_000,
		NetworkRxBytes: 5_700,
		NetworkTxBytes: 3_000,
	})

	want := Stats{
		StatCPU:     "1.98%",
		StatMemory:  "66 MB",
		StatDisk:    "5.3 MB / 44 MB",
		StatNetwork: "5.7 kB / 3.0 kB",
	}
	for label, v := range want {
		if got[label] != v {
			t.Errorf("%s = %q, want %q", label, got[label], v)
		}
	}
}

func TestFormatBytes_Negative(t *testing.T) {
	if got := formatBytes(-12); got != "0 B" {
		t.Errorf("formatBytes(-12) = %q", got)
	}
}

func TestPrometheusStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := "1000"
		if strings.Contains(r.URL.Query().Get("query"), "cpu") {
			v = "12.5"
		}
		fmt.Fprintf(w, `{"status":"success","data":{"resultType":"vector","result":[{"metric":{},"value":[1700000000,%q]}]}}`, v)
	}))
	defer srv.Close()

	p := NewPrometheusStats(prometheus.NewClient(prometheus.Config{QueryURL: srv.URL}))
	stats, err := p.Stats(context.Background(), logs.Workload{Namespace: "plays", Pod: "web-0"})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[StatCPU] != "12.50%" {
		t.Errorf("cpu = %q", stats[StatCPU])
	}
	if stats[StatMemory] != "1.0 kB" {
		t.Errorf("memory = %q", stats[StatMemory])
	}
}
