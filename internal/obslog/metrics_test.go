package obslog

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)
	RegisterMetrics(reg)

	RecordFrameSent("check")
	RecordFrameReceived("check")
	RecordReconnect()
	SetPendingRequests(3)
	RecordRequestDuration("ok", 12*time.Millisecond)
	RecordContractOutcome("deliverTx", 0)
	RecordContractOutcome("deliverTx", 9)
}
