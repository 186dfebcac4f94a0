package checkin

import (
	"sync"
	"time"
)

// tenthSecond is the simulation's base time unit: 1 unit = 100ms.
const tenthSecond = 100 * time.Millisecond

// EventLog captures one customer's arrival/serve-start/serve-end timestamps,
// measured in seconds since the scheduler's t0, for the per-customer report
// the `acs` CLI prints.
type EventLog struct {
	CustomerID     int
	Class          CustomerClass
	ArrivedAt      float64
	ServiceStartAt float64
	ServiceEndAt   float64
}

// Scheduler owns the full lifecycle of one check-in simulation run: the two
// priority queues, the shared statistics, and every customer/clerk
// goroutine, as a single value whose construction and run-to-completion are
// explicit, with no hidden singletons or package-level mutable state.
type Scheduler struct {
	customers []Customer
	queues    [2]*queue
	stats     *Stats
	t0        time.Time

	logsMu sync.Mutex
	logs   []EventLog
}

// NewScheduler builds a scheduler for the given customer set. queueCapacity
// bounds each class's circular buffer; it must be at least the number of
// customers of that class that can be waiting at once (trivially, the total
// count of that class is always sufficient).
func NewScheduler(customers []Customer, queueCapacity int) *Scheduler {
	logs := make([]EventLog, len(customers))
	for i, c := range customers {
		logs[i] = EventLog{CustomerID: c.ID, Class: c.Class}
	}
	return &Scheduler{
		customers: customers,
		queues:    [2]*queue{newQueue(queueCapacity), newQueue(queueCapacity)},
		stats:     NewStats(len(customers)),
		logs:      logs,
	}
}

// Run starts one clerk goroutine per clerk and one goroutine per customer,
// then blocks until every customer has been served and every clerk has
// exited (the remaining-customers countdown reaching 0). It returns the
// accumulated Stats and the per-customer event log, ordered by input order.
func (s *Scheduler) Run(numClerks int) (*Stats, []EventLog) {
	s.t0 = time.Now()

	var clerkWG sync.WaitGroup
	for clerkID := 0; clerkID < numClerks; clerkID++ {
		clerkWG.Add(1)
		go func(id int) {
			defer clerkWG.Done()
			s.runClerk(id)
		}(clerkID)
	}

	var customerWG sync.WaitGroup
	for i := range s.customers {
		customerWG.Add(1)
		go func(idx int) {
			defer customerWG.Done()
			s.runCustomer(idx)
		}(i)
	}

	customerWG.Wait()
	clerkWG.Wait()

	return s.stats, s.logs
}

func (s *Scheduler) recordLog(idx int, mutate func(*EventLog)) {
	s.logsMu.Lock()
	defer s.logsMu.Unlock()
	mutate(&s.logs[idx])
}

// runCustomer implements the per-customer lifecycle: arrive, queue, wait for
// a clerk, get served, then signal the clerk that service is complete.
func (s *Scheduler) runCustomer(idx int) {
	c := s.customers[idx]

	time.Sleep(time.Duration(c.ArrivalTenths) * tenthSecond)
	s.recordLog(idx, func(l *EventLog) { l.ArrivedAt = time.Since(s.t0).Seconds() })

	q := s.queues[c.Class]

	q.mu.Lock()
	q.enqueueLocked(idx)
	enteredQueueAt := time.Now()

	for !(q.isFrontLocked(idx) && !q.winnerSelected) {
		q.cond.Wait()
	}
	q.dequeueLocked()
	q.winnerSelected = true

	// Free the hand-off slot while still holding the queue mutex, rather than
	// after releasing it, so the clerk id is never read outside the lock.
	q.status = freeStatus
	waiter := q.waiter
	q.mu.Unlock()

	waitTenths := int(time.Since(enteredQueueAt) / tenthSecond)
	s.stats.RecordWait(c.Class, waitTenths)
	s.recordLog(idx, func(l *EventLog) { l.ServiceStartAt = time.Since(s.t0).Seconds() })

	time.Sleep(time.Duration(c.ServiceTenths) * tenthSecond)
	s.recordLog(idx, func(l *EventLog) { l.ServiceEndAt = time.Since(s.t0).Seconds() })

	if waiter != nil {
		waiter.Signal()
	}
	s.stats.DecrementRemaining()
}

// runClerk implements the clerk lifecycle: strict business-over-economy
// priority, busy-retry when neither queue has work, and termination when the
// remaining-customers countdown reaches 0.
func (s *Scheduler) runClerk(id int) {
	for s.stats.Remaining() > 0 {
		q, claimed := s.claimQueue(id)
		if !claimed {
			time.Sleep(time.Millisecond) // bound the busy-retry spin
			continue
		}

		q.mu.Lock()
		q.status = id
		q.winnerSelected = false
		waiter := sync.NewCond(&q.mu)
		q.waiter = waiter
		q.cond.Broadcast()
		waiter.Wait()
		q.mu.Unlock()
	}
}

// claimQueue implements strict priority: business (class 1) is always
// checked before economy, with no aging.
func (s *Scheduler) claimQueue(clerkID int) (*queue, bool) {
	for _, class := range [2]CustomerClass{Business, Economy} {
		q := s.queues[class]
		q.mu.Lock()
		if q.count > 0 && q.status == freeStatus {
			q.status = clerkID
			q.mu.Unlock()
			return q, true
		}
		q.mu.Unlock()
	}
	return nil, false
}
