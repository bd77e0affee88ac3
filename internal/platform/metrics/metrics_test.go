// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-blog/internal/platform/metrics"
)

type fakeStats struct{ total, idle, acquired int32 }

func (s fakeStats) TotalConns() int32    { return s.total }
func (s fakeStats) IdleConns() int32     { return s.idle }
func (s fakeStats) AcquiredConns() int32 { return s.acquired }

type fakeProvider struct{ stats fakeStats }

func (p fakeProvider) Stat() metrics.PoolStats { return p.stats }

/*
TestObservePostOperation counts successes and failures separately.
*/
func TestObservePostOperation(t *testing.T) {
	success := metrics.PostOperationsTotal.WithLabelValues("test_op", metrics.ResultSuccess)
	failure := metrics.PostOperationsTotal.WithLabelValues("test_op", metrics.ResultFailure)
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	metrics.ObservePostOperation("test_op", nil)
	metrics.ObservePostOperation("test_op", errors.New("boom"))
	metrics.ObservePostOperation("test_op", nil)

	assert.Equal(t, beforeSuccess+2, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
}

/*
TestPoolStatsCollector publishes the provider snapshot on start.
*/
func TestPoolStatsCollector(t *testing.T) {
	collector := metrics.NewPoolStatsCollectorWithProvider(fakeProvider{stats: fakeStats{total: 10, idle: 7, acquired: 3}})
	collector.Start(time.Hour)
	defer collector.Stop()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.DBConnectionPoolSize.WithLabelValues("in_use")) == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, float64(10), testutil.ToFloat64(metrics.DBConnectionPoolSize.WithLabelValues("total")))
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.DBConnectionPoolSize.WithLabelValues("idle")))
}
