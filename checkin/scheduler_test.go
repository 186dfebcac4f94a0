package checkin_test

import (
	"testing"
	"time"

	"github.com/csc360-labs/fat12lab/checkin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerServesAllCustomers(t *testing.T) {
	customers := []checkin.Customer{
		{ID: 1, Class: checkin.Economy, ArrivalTenths: 1, ServiceTenths: 2},
		{ID: 2, Class: checkin.Business, ArrivalTenths: 1, ServiceTenths: 2},
		{ID: 3, Class: checkin.Economy, ArrivalTenths: 2, ServiceTenths: 2},
	}

	scheduler := checkin.NewScheduler(customers, len(customers))

	done := make(chan struct{})
	var stats *checkin.Stats
	var logs []checkin.EventLog
	go func() {
		stats, logs = scheduler.Run(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not terminate")
	}

	require.Equal(t, 0, stats.Remaining())
	require.Len(t, logs, 3)
	for _, log := range logs {
		assert.Greater(t, log.ServiceEndAt, log.ServiceStartAt)
		assert.GreaterOrEqual(t, log.ServiceStartAt, log.ArrivedAt)
	}
}

func TestSchedulerBusinessPriority(t *testing.T) {
	customers := []checkin.Customer{
		{ID: 1, Class: checkin.Economy, ArrivalTenths: 1, ServiceTenths: 10},
		{ID: 2, Class: checkin.Business, ArrivalTenths: 2, ServiceTenths: 2},
	}

	scheduler := checkin.NewScheduler(customers, len(customers))

	done := make(chan struct{})
	var logs []checkin.EventLog
	go func() {
		_, logs = scheduler.Run(1)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not terminate")
	}

	// With a single clerk busy serving the economy customer when the
	// business customer arrives, the business customer waits for that
	// service to end (no preemption) and is then served, not starved.
	assert.GreaterOrEqual(t, logs[1].ServiceStartAt, logs[0].ServiceEndAt)
	assert.Less(t, logs[1].ServiceStartAt, logs[1].ServiceEndAt)
}
