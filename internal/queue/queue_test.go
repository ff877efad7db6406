package queue

import (
	"testing"
	"time"

	"github.com/auricle-labs/seqtap/internal/domain"
	"github.com/auricle-labs/seqtap/internal/ports"
)

// stubSequencer implements just enough of ports.Sequencer for queue tests.
type stubSequencer struct {
	sink    ports.EventSink
	started int
	stopped int
}

func (s *stubSequencer) Open(string) (int, error)                    { return 0, nil }
func (s *stubSequencer) Close() error                                { return nil }
func (s *stubSequencer) ClientName() (string, error)                 { return "", nil }
func (s *stubSequencer) CreatePort(string, domain.PortCaps) (int, error) { return 0, nil }
func (s *stubSequencer) PortName(int) (string, error)                { return "", nil }
func (s *stubSequencer) ConnectFrom(int, domain.PortID) error        { return nil }
func (s *stubSequencer) Subscribers(int) ([]domain.PortID, error)    { return nil, nil }
func (s *stubSequencer) Ports() ([]ports.PortInfo, error)            { return nil, nil }
func (s *stubSequencer) Decode(ev ports.RawEvent) ([]byte, error)    { return ev.Data, nil }

func (s *stubSequencer) StartInput(sink ports.EventSink) error {
	s.sink = sink
	s.started++
	return nil
}

func (s *stubSequencer) StopInput() error {
	s.sink = nil
	s.stopped++
	return nil
}

func startedQueue(t *testing.T, capacity int) (*Queue, *stubSequencer) {
	t.Helper()
	q := New(capacity, nil)
	seq := &stubSequencer{}
	if err := q.Start(seq); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return q, seq
}

func TestQueue_StartRegistersSink(t *testing.T) {
	q, seq := startedQueue(t, 4)
	if seq.sink != ports.EventSink(q) {
		t.Error("queue did not register itself as the event sink")
	}
	// starting twice is a no-op
	if err := q.Start(seq); err != nil {
		t.Fatal(err)
	}
	if seq.started != 1 {
		t.Errorf("StartInput called %d times, want 1", seq.started)
	}
}

func TestQueue_ProcessInArrivalOrder(t *testing.T) {
	q, _ := startedQueue(t, 8)
	base := time.Now()

	for i := 0; i < 3; i++ {
		q.Deliver(ports.RawEvent{Data: []byte{byte(i)}}, base.Add(time.Duration(i)*time.Millisecond))
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}

	var got []byte
	n := q.Process(base.Add(time.Second), func(ev ports.RawEvent, at time.Time) bool {
		got = append(got, ev.Data[0])
		return true
	})
	if n != 3 {
		t.Errorf("processed %d, want 3", n)
	}
	if string(got) != "\x00\x01\x02" {
		t.Errorf("order = %v, want 0,1,2", got)
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d, want 0", q.Len())
	}
}

func TestQueue_ProcessHonorsDeadline(t *testing.T) {
	q, _ := startedQueue(t, 8)
	base := time.Now()

	q.Deliver(ports.RawEvent{Data: []byte{1}}, base)
	q.Deliver(ports.RawEvent{Data: []byte{2}}, base.Add(time.Minute))

	n := q.Process(base, func(ports.RawEvent, time.Time) bool { return true })
	if n != 1 {
		t.Errorf("processed %d, want 1 (event at the deadline is due)", n)
	}
	if q.Len() != 1 {
		t.Errorf("Len = %d, want the later event still queued", q.Len())
	}
}

func TestQueue_ProcessEarlyStop(t *testing.T) {
	q, _ := startedQueue(t, 8)
	base := time.Now()

	for i := 0; i < 4; i++ {
		q.Deliver(ports.RawEvent{Data: []byte{byte(i)}}, base)
	}

	n := q.Process(base.Add(time.Second), func(ports.RawEvent, time.Time) bool {
		return false
	})
	if n != 1 {
		t.Errorf("processed %d, want 1", n)
	}
	if q.Len() != 3 {
		t.Errorf("Len = %d, want 3 remaining", q.Len())
	}
}

func TestQueue_DropsWhenFull(t *testing.T) {
	q, _ := startedQueue(t, 2)
	base := time.Now()

	for i := 0; i < 5; i++ {
		q.Deliver(ports.RawEvent{Data: []byte{byte(i)}}, base)
	}
	if q.Len() != 2 {
		t.Errorf("Len = %d, want capacity 2", q.Len())
	}
	if q.Dropped() != 3 {
		t.Errorf("Dropped = %d, want 3", q.Dropped())
	}
}

func TestQueue_StopDiscardsAndDetaches(t *testing.T) {
	q, seq := startedQueue(t, 4)
	q.Deliver(ports.RawEvent{Data: []byte{1}}, time.Now())

	if err := q.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if q.Len() != 0 {
		t.Errorf("Len after Stop = %d, want 0", q.Len())
	}
	if seq.stopped != 1 {
		t.Errorf("StopInput called %d times, want 1", seq.stopped)
	}

	// delivery after Stop is dropped silently
	q.Deliver(ports.RawEvent{Data: []byte{2}}, time.Now())
	if q.Len() != 0 {
		t.Error("event accepted while stopped")
	}

	// stopping twice is a no-op
	if err := q.Stop(); err != nil {
		t.Fatal(err)
	}
	if seq.stopped != 1 {
		t.Errorf("StopInput called %d times after double Stop, want 1", seq.stopped)
	}
}

func TestQueue_DefaultCapacity(t *testing.T) {
	q := New(0, nil)
	if q.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", q.capacity, DefaultCapacity)
	}
}
