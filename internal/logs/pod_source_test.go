package logs

import (
	"context"
	"errors"
	"io"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func testPod() *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "web-0", Namespace: "default"},
		Spec: corev1.PodSpec{
			InitContainers: []corev1.Container{{Name: "migrate"}},
			Containers:     []corev1.Container{{Name: "app"}},
		},
	}
}

func TestPodSource_Open(t *testing.T) {
	tests := []struct {
		name     string
		workload Workload
		wantErr  bool
	}{
		{
			name:     "existing pod",
			workload: Workload{Namespace: "default", Pod: "web-0"},
		},
		{
			name:     "named container",
			workload: Workload{Namespace: "default", Pod: "web-0", Container: "app"},
		},
		{
			name:     "init container",
			workload: Workload{Namespace: "default", Pod: "web-0", Container: "migrate"},
		},
		{
			name:     "missing pod",
			workload: Workload{Namespace: "default", Pod: "web-1"},
			wantErr:  true,
		},
		{
			name:     "wrong namespace",
			workload: Workload{Namespace: "staging", Pod: "web-0"},
			wantErr:  true,
		},
		{
			name:     "missing container",
			workload: Workload{Namespace: "default", Pod: "web-0", Container: "sidecar"},
			wantErr:  true,
		},
		{
			name:     "no pod named",
			workload: Workload{Namespace: "default"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewPodSource(fake.NewClientset(testPod()))

			stream, err := src.Open(context.Background(), tt.workload, OpenOptions{Follow: true, BacklogLines: 1})
			if tt.wantErr {
				if !errors.Is(err, ErrSourceUnavailable) {
					t.Fatalf("err = %v, want ErrSourceUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer stream.Close()

			data, err := io.ReadAll(stream)
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(data) != "fake logs" {
				t.Errorf("data = %q, want %q", data, "fake logs")
			}
		})
	}
}
