package checkin

import "sync"

// Stats aggregates the scheduler's shared mutable totals under one mutex:
// total waiting time, the per-class waiting sums, and the
// remaining-customers countdown.
type Stats struct {
	mu sync.Mutex

	totalWaitingTenths int
	classWaitingTenths [2]int
	classServedCount   [2]int
	remainingCustomers int
}

// NewStats initializes the countdown to totalCustomers; clerks run until it
// reaches zero.
func NewStats(totalCustomers int) *Stats {
	return &Stats{remainingCustomers: totalCustomers}
}

// RecordWait adds one customer's wait duration to the running totals.
func (s *Stats) RecordWait(class CustomerClass, waitTenths int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalWaitingTenths += waitTenths
	s.classWaitingTenths[class] += waitTenths
	s.classServedCount[class]++
}

// DecrementRemaining decrements the countdown and returns its new value.
func (s *Stats) DecrementRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remainingCustomers--
	return s.remainingCustomers
}

// Remaining reads the countdown without mutating it.
func (s *Stats) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingCustomers
}

// TotalWaitingTenths is the sum, across every customer served so far, of
// tenths-of-a-second spent waiting in queue.
func (s *Stats) TotalWaitingTenths() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalWaitingTenths
}

// AverageWaitSeconds returns one class's mean wait time in seconds, or 0 if
// no customer of that class has been served yet.
func (s *Stats) AverageWaitSeconds(class CustomerClass) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	served := s.classServedCount[class]
	if served == 0 {
		return 0
	}
	return float64(s.classWaitingTenths[class]) / float64(served) / 10.0
}

// OverallAverageWaitSeconds returns the mean wait time in seconds across
// both classes combined.
func (s *Stats) OverallAverageWaitSeconds() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	served := s.classServedCount[0] + s.classServedCount[1]
	if served == 0 {
		return 0
	}
	return float64(s.totalWaitingTenths) / float64(served) / 10.0
}
