package eventbus

import (
	"errors"
	"sync"
	"time"

	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/models"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
	ErrBusFull     = errors.New("event channel is full")
	ErrBusClosed   = errors.New("event bus is closed")
)

// UIEvent represents events sent from UI to Core
type UIEvent interface {
	UIEvent()
}

// CoreEvent represents events sent from Core to UI
type CoreEvent interface {
	CoreEvent()
}

// SubmitEvent - UI asks core to send a validated feature vector
type SubmitEvent struct {
	Seq      uint64
	Features [fields.Count]float64
}

func (e SubmitEvent) UIEvent() {}

// PingEvent - UI asks core to check the endpoint is reachable
type PingEvent struct{}

func (e PingEvent) UIEvent() {}

// PredictionEvent - Core delivers the outcome of a submission
type PredictionEvent struct {
	Outcome models.Outcome
}

func (e PredictionEvent) CoreEvent() {}

// EndpointStatusEvent - Core reports the result of a ping
type EndpointStatusEvent struct {
	Message string
	Err     error
}

func (e EndpointStatusEvent) CoreEvent() {}

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error {
	return e.Err
}

// CircuitBreakerState represents the state of circuit breaker
type CircuitBreakerState int

const (
	CircuitClosed CircuitBreakerState = iota
	CircuitOpen
	CircuitHalfOpen
)

// CircuitBreaker stops accepting events after repeated delivery failures
type CircuitBreaker struct {
	mu              sync.Mutex
	maxFailures     int
	resetTimeout    time.Duration
	failureCount    int
	lastFailureTime time.Time
	state           CircuitBreakerState
	now             func() time.Time
}

func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailureTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
	}
	return cb.state == CircuitOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = CircuitClosed
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	if cb.failureCount >= cb.maxFailures {
		cb.state = CircuitOpen
	}
}

func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// EventBus handles communication between UI and Core with circuit breaker
type EventBus struct {
	mu             sync.RWMutex
	closed         bool
	uiToCore       chan UIEvent
	coreToUI       chan CoreEvent
	errorCallback  func(EventBusError)
	circuitBreaker *CircuitBreaker
}

func NewEventBus() *EventBus {
	return NewEventBusWithSize(100)
}

func NewEventBusWithSize(size int) *EventBus {
	return &EventBus{
		uiToCore:       make(chan UIEvent, size),
		coreToUI:       make(chan CoreEvent, size),
		circuitBreaker: NewCircuitBreaker(5, 30*time.Second),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.errorCallback = callback
}

func (eb *EventBus) reportError(operation string, err error) {
	eb.circuitBreaker.RecordFailure()

	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()

	if callback != nil {
		callback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

func (eb *EventBus) SendToCore(event UIEvent) error {
	return send(eb, "SendToCore", eb.uiToCore, event)
}

func (eb *EventBus) SendToUI(event CoreEvent) error {
	return send(eb, "SendToUI", eb.coreToUI, event)
}

func send[T any](eb *EventBus, operation string, ch chan T, event T) error {
	if eb.circuitBreaker.IsOpen() {
		eb.reportError(operation, ErrCircuitOpen)
		return ErrCircuitOpen
	}

	err := deliver(eb, ch, event)
	switch {
	case err == nil:
		eb.circuitBreaker.RecordSuccess()
	case errors.Is(err, ErrBusFull):
		eb.reportError(operation, err)
	}
	return err
}

func deliver[T any](eb *EventBus, ch chan T, event T) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	if eb.closed {
		return ErrBusClosed
	}

	select {
	case ch <- event:
		return nil
	default:
		return ErrBusFull
	}
}

func (eb *EventBus) UIToCore() <-chan UIEvent {
	return eb.uiToCore
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

func (eb *EventBus) GetCircuitBreakerState() CircuitBreakerState {
	return eb.circuitBreaker.State()
}

func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.uiToCore)
	close(eb.coreToUI)
}
