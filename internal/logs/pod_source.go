package logs

import (
	"context"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/ptr"
)

// PodSource streams container output through the Kubernetes pod log API.
type PodSource struct {
	k8s kubernetes.Interface
}

func NewPodSource(k8s kubernetes.Interface) *PodSource {
	return &PodSource{k8s: k8s}
}

func (s *PodSource) Open(ctx context.Context, workload Workload, opts OpenOptions) (io.ReadCloser, error) {
	if workload.Pod == "" {
		return nil, fmt.Errorf("%w: no pod named", ErrSourceUnavailable)
	}

	pod, err := s.k8s.CoreV1().Pods(workload.Namespace).Get(ctx, workload.Pod, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: pod %s not found", ErrSourceUnavailable, workload)
		}
		return nil, fmt.Errorf("%w: get pod %s: %w", ErrSourceUnavailable, workload, err)
	}

	if workload.Container != "" && !hasContainer(pod, workload.Container) {
		return nil, fmt.Errorf("%w: container %q not found in pod %s/%s",
			ErrSourceUnavailable, workload.Container, workload.Namespace, workload.Pod)
	}

	logOpts := &corev1.PodLogOptions{
		Container: workload.Container,
		Follow:    opts.Follow,
	}
	if opts.BacklogLines >= 0 {
		logOpts.TailLines = ptr.To(opts.BacklogLines)
	}

	stream, err := s.k8s.CoreV1().Pods(workload.Namespace).GetLogs(workload.Pod, logOpts).Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: open log stream for %s: %w", ErrSourceUnavailable, workload, err)
	}
	return stream, nil
}

func hasContainer(pod *corev1.Pod, name string) bool {
	for _, c := range pod.Spec.Containers {
		if c.Name == name {
			return true
		}
	}
	for _, c := range pod.Spec.InitContainers {
		if c.Name == name {
			return true
		}
	}
	return false
}
