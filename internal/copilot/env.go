// Package copilot reads the environment AWS Copilot injects into services.
package copilot

import (
	"fmt"
	"os"
)

func App() string {
	return os.Getenv("COPILOT_APPLICATION_NAME")
}

func Environment() string {
	return os.Getenv("COPILOT_ENVIRONMENT_NAME")
}

// QueueURI is the URL of a worker service's subscription queue.
func QueueURI() string {
	return os.Getenv("COPILOT_QUEUE_URI")
}

// ServiceName returns "<app>-<env>-<svc>", or fallback outside Copilot.
func ServiceName(fallback string) string {
	app, ok := os.LookupEnv("COPILOT_APPLICATION_NAME")
	if !ok {
		return fallback
	}

	env, ok := os.LookupEnv("COPILOT_ENVIRONMENT_NAME")
	if !ok {
		return fallback
	}

	svc, ok := os.LookupEnv("COPILOT_SERVICE_NAME")
	if !ok {
		return fallback
	}

	return fmt.Sprintf("%s-%s-%s", app, env, svc)
}
