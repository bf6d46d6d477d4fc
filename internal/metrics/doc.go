// Package metrics collects Prometheus metrics for expression evaluation and
// runtime memory statistics, and renders them in the text exposition format.
package metrics
