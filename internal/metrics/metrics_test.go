package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetIsSingleton(t *testing.T) {
	assert.Same(t, Get(), Initialize())
}

func TestRecordInteraction(t *testing.T) {
	before := testutil.ToFloat64(Get().InteractionsTotal.WithLabelValues("like", "ok"))
	RecordInteraction("like", "ok")
	RecordInteraction("like", "ok")
	after := testutil.ToFloat64(Get().InteractionsTotal.WithLabelValues("like", "ok"))
	assert.Equal(t, before+2, after)
}
