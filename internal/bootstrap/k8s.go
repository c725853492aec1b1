package bootstrap

import (
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

func NewK8sClient(cfg KubernetesConfig, logger *slog.Logger) (kubernetes.Interface, error) {
	restConfig, err := restConfig(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.QPS > 0 {
		restConfig.QPS = cfg.QPS
	}
	if cfg.Burst > 0 {
		restConfig.Burst = cfg.Burst
	}

	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	logger.Info("Kubernetes client initialized", "host", restConfig.Host)
	return client, nil
}

func restConfig(cfg KubernetesConfig) (*rest.Config, error) {
	if cfg.Kubeconfig != "" {
		c, err := clientcmd.BuildConfigFromFlags("", cfg.Kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", cfg.Kubeconfig, err)
		}
		return c, nil
	}

	c, err := rest.InClusterConfig()
	if err == nil {
		return c, nil
	}

	// Outside a cluster fall back to the usual KUBECONFIG / ~/.kube/config lookup.
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		clientcmd.NewDefaultClientConfigLoadingRules(),
		&clientcmd.ConfigOverrides{},
	)
	c, fallbackErr := loader.ClientConfig()
	if fallbackErr != nil {
		return nil, fmt.Errorf("no in-cluster config (%v) and no kubeconfig: %w", err, fallbackErr)
	}
	return c, nil
}
