package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	"github.com/augustdev/amphitheatre/internal/prometheus"
	"github.com/augustdev/amphitheatre/internal/workloads"
	"k8s.io/client-go/kubernetes/fake"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewInspector(t *testing.T) {
	tests := []struct {
		name     string
		selector string
		wantType string
		wantErr  bool
	}{
		{name: "default", selector: "", wantType: "static"},
		{name: "static", selector: workloads.InspectorStatic, wantType: "static"},
		{name: "kubernetes", selector: workloads.InspectorKubernetes, wantType: "kubernetes"},
		{name: "unknown", selector: "docker", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInspector(workloads.Config{Inspector: tt.selector}, fake.NewClientset(), discardLogger())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewInspector: %v", err)
			}
			switch got.(type) {
			case *workloads.StaticInspector:
				if tt.wantType != "static" {
					t.Errorf("got static inspector, want %s", tt.wantType)
				}
			case *workloads.KubernetesInspector:
				if tt.wantType != "kubernetes" {
					t.Errorf("got kubernetes inspector, want %s", tt.wantType)
				}
			default:
				t.Errorf("unexpected inspector %T", got)
			}
		})
	}
}

func TestNewStatsProvider(t *testing.T) {
	if _, ok := NewStatsProvider(prometheus.Config{}, discardLogger()).(*workloads.StaticStats); !ok {
		t.Error("want static stats without a query url")
	}
	if _, ok := NewStatsProvider(prometheus.Config{QueryURL: "http://prometheus:9090"}, discardLogger()).(*workloads.PrometheusStats); !ok {
		t.Error("want prometheus stats with a query url")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
