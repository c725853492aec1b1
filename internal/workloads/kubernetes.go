package workloads

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/augustdev/amphitheatre/internal/logs"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// KubernetesInspector describes a workload from its pod spec.
type KubernetesInspector struct {
	k8s kubernetes.Interface
}

func NewKubernetesInspector(k8s kubernetes.Interface) *KubernetesInspector {
	return &KubernetesInspector{k8s: k8s}
}

func (i *KubernetesInspector) Inspect(ctx context.Context, workload logs.Workload) (Inspection, error) {
	pod, err := i.k8s.CoreV1().Pods(workload.Namespace).Get(ctx, workload.Pod, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: pod %s not found", logs.ErrSourceUnavailable, workload)
		}
		return nil, fmt.Errorf("get pod %s: %w", workload, err)
	}

	container, err := pickContainer(pod, workload.Container)
	if err != nil {
		return nil, err
	}

	volumes := make(map[string]corev1.Volume, len(pod.Spec.Volumes))
	for _, v := range pod.Spec.Volumes {
		volumes[v.Name] = v
	}

	env := make(map[string]string, len(container.Env))
	for _, e := range container.Env {
		env[e.Name] = envValue(e)
	}

	mounts := make(map[string]string, len(container.VolumeMounts))
	for _, m := range container.VolumeMounts {
		mounts[m.MountPath] = volumeSource(volumes[m.Name], m.Name)
	}

	ports := make(map[string]string, len(container.Ports))
	for _, p := range container.Ports {
		proto := strings.ToLower(string(p.Protocol))
		if proto == "" {
			proto = "tcp"
		}
		key := strconv.Itoa(int(p.ContainerPort)) + "/" + proto
		ports[key] = portBinding(pod, p)
	}

	return Inspection{
		SectionEnvironments: env,
		SectionMounts:       mounts,
		SectionPort:         ports,
	}, nil
}

func pickContainer(pod *corev1.Pod, name string) (*corev1.Container, error) {
	if len(pod.Spec.Containers) == 0 {
		return nil, fmt.Errorf("pod %s/%s has no containers", pod.Namespace, pod.Name)
	}
	if name == "" {
		return &pod.Spec.Containers[0], nil
	}
	for i := range pod.Spec.Containers {
		if pod.Spec.Containers[i].Name == name {
			return &pod.Spec.Containers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: container %q not found in pod %s/%s",
		logs.ErrSourceUnavailable, name, pod.Namespace, pod.Name)
}

func envValue(e corev1.EnvVar) string {
	if e.ValueFrom == nil {
		return e.Value
	}
	switch {
	case e.ValueFrom.SecretKeyRef != nil:
		return fmt.Sprintf("<secret %s/%s>", e.ValueFrom.SecretKeyRef.Name, e.ValueFrom.SecretKeyRef.Key)
	case e.ValueFrom.ConfigMapKeyRef != nil:
		return fmt.Sprintf("<configmap %s/%s>", e.ValueFrom.ConfigMapKeyRef.Name, e.ValueFrom.ConfigMapKeyRef.Key)
	case e.ValueFrom.FieldRef != nil:
		return fmt.Sprintf("<field %s>", e.ValueFrom.FieldRef.FieldPath)
	case e.ValueFrom.ResourceFieldRef != nil:
		return fmt.Sprintf("<resource %s>", e.ValueFrom.ResourceFieldRef.Resource)
	default:
		return "<unresolved>"
	}
}

func volumeSource(v corev1.Volume, name string) string {
	switch {
	case v.HostPath != nil:
		return v.HostPath.Path
	case v.PersistentVolumeClaim != nil:
		return "pvc:" + v.PersistentVolumeClaim.ClaimName
	case v.ConfigMap != nil:
		return "configmap:" + v.ConfigMap.Name
	case v.Secret != nil:
		return "secret:" + v.Secret.SecretName
	case v.EmptyDir != nil:
		return "emptydir:" + name
	case v.Projected != nil:
		return "projected:" + name
	default:
		return name
	}
}

func portBinding(pod *corev1.Pod, p corev1.ContainerPort) string {
	if p.HostPort != 0 {
		host := p.HostIP
		if host == "" {
			host = "0.0.0.0"
		}
		return net.JoinHostPort(host, strconv.Itoa(int(p.HostPort)))
	}
	ip := pod.Status.PodIP
	if ip == "" {
		ip = "0.0.0.0"
	}
	return net.JoinHostPort(ip, strconv.Itoa(int(p.ContainerPort)))
}
