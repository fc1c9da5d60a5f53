package mocks

import (
	"context"
	"cowork/infras/metrics"
	"net/http"
	"time"
)

type metricsImpl struct {
}

// BookingAdmitted implements metrics.Metrics.
func (m *metricsImpl) BookingAdmitted() {

}

// BookingRejected implements metrics.Metrics.
func (m *metricsImpl) BookingRejected(_ string) {

}

// BookingCancelled implements metrics.Metrics.
func (m *metricsImpl) BookingCancelled() {

}

// AvailabilityQueried implements metrics.Metrics.
func (m *metricsImpl) AvailabilityQueried(_ string, _ int) {

}

// ObserveRequest implements metrics.Metrics.
func (m *metricsImpl) ObserveRequest(_ context.Context, _, _ string, _ int, _ time.Duration) {

}

// Handler implements metrics.Metrics.
func (m *metricsImpl) Handler() http.Handler {
	return http.NotFoundHandler()
}

func NewMetrics() metrics.Metrics {
	return &metricsImpl{}
}
