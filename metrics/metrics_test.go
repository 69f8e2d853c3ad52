package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNopSatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.ObservePut(time.Millisecond)
	r.IncRotation()
	r.IncFlushDispatch(true)
	r.SetImmutableCount(3)
}

func TestPrometheusRecordsObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "tskv_test")

	p.ObservePut(5 * time.Millisecond)
	p.IncRotation()
	p.IncFlushDispatch(false)
	p.IncFlushDispatch(true)
	p.SetImmutableCount(7)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
