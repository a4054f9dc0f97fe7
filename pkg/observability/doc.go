/*
Package observability provides Prometheus metrics for the subject registry.

Metrics are fed by domain.LifecycleHooks, so any registry configured with
Metrics.Hooks() reports connects, disconnects and every transition outcome
without the registry itself depending on Prometheus.
*/
package observability
