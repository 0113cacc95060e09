// Package service defines the domain logic and the interfaces of domain services.
package service

import (
	"time"
)

// Metrics defines the interface for collecting business metrics.
// This abstraction allows the application layer to remain independent of the specific monitoring implementation (e.g., Prometheus).
// Metrics 定义了收集业务指标的接口。
type Metrics interface {
	// RecordUpstreamCall records one key API call.
	// RecordUpstreamCall 记录一次密钥 API 调用。
	RecordUpstreamCall(endpoint, method string, status int, duration time.Duration)

	// RecordPremiseSave records a premise save; changed is false for no-op saves.
	// RecordPremiseSave 记录一次前提保存。
	RecordPremiseSave(changed bool, success bool)

	// RecordRevisionBuild records a build-key save.
	// RecordRevisionBuild 记录一次修订构建。
	RecordRevisionBuild(success bool, errorCode string, duration time.Duration)

	// RecordBestEffortFailure records a failed best-effort call.
	// RecordBestEffortFailure 记录尽力而为调用的失败。
	RecordBestEffortFailure(operation string)
}

// NoopMetrics discards all metrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordUpstreamCall(string, string, int, time.Duration) {}
func (NoopMetrics) RecordPremiseSave(bool, bool)                          {}
func (NoopMetrics) RecordRevisionBuild(bool, string, time.Duration)       {}
func (NoopMetrics) RecordBestEffortFailure(string)                        {}
