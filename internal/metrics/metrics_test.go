package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStage_CountsErrors(t *testing.T) {
	before := testutil.ToFloat64(StageErrors.WithLabelValues("test_stage"))

	ObserveStage("test_stage", time.Now(), nil)
	ObserveStage("test_stage", time.Now(), errors.New("boom"))

	after := testutil.ToFloat64(StageErrors.WithLabelValues("test_stage"))
	if after-before != 1 {
		t.Fatalf("expected exactly one error increment, got %v", after-before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("POST", "/mood-suggestions", 200, 10*time.Millisecond)
	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/mood-suggestions", "200"))
	if got < 1 {
		t.Fatalf("expected request counter to be incremented, got %v", got)
	}
}
