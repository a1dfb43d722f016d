package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/predict"
)

type fakePredictor struct {
	mu       sync.Mutex
	calls    [][fields.Count]float64
	block    chan struct{} // when set, the first call waits on it or ctx
	result   *predict.Result
	err      error
	pingMsg  string
	pingErr  error
	canceled chan struct{}
}

func (f *fakePredictor) Predict(ctx context.Context, features [fields.Count]float64) (*predict.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, features)
	first := len(f.calls) == 1
	f.mu.Unlock()

	if first && f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			if f.canceled != nil {
				close(f.canceled)
			}
			return nil, &predict.TransportError{Err: ctx.Err()}
		}
	}
	return f.result, f.err
}

func (f *fakePredictor) Ping(ctx context.Context) (string, error) {
	return f.pingMsg, f.pingErr
}

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func nextEvent(t *testing.T, eb *eventbus.EventBus) eventbus.CoreEvent {
	t.Helper()
	select {
	case ev := <-eb.CoreToUI():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for core event")
		return nil
	}
}

func TestPredictionService_Submit(t *testing.T) {
	t.Parallel()

	fp := &fakePredictor{result: &predict.Result{Prediction: 1, Probability: 0.9}}
	eb := eventbus.NewEventBus()
	svc := NewPredictionService(fp, eb, nil)
	svc.Start()
	defer func() {
		svc.Stop()
		eb.Close()
	}()

	features := [fields.Count]float64{30, 1000, 0, 1, 1, 2, 0.5}
	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Seq: 1, Features: features}))

	ev := nextEvent(t, eb).(eventbus.PredictionEvent)
	assert.Equal(t, uint64(1), ev.Outcome.Seq)
	assert.Equal(t, fp.result, ev.Outcome.Result)
	assert.NoError(t, ev.Outcome.Err)
	assert.Equal(t, 1, fp.callCount())
	assert.Equal(t, features, fp.calls[0])
}

func TestPredictionService_CancelsSupersededRequest(t *testing.T) {
	t.Parallel()

	fp := &fakePredictor{
		block:    make(chan struct{}),
		canceled: make(chan struct{}),
		result:   &predict.Result{Prediction: 0, Probability: 0.1},
	}
	eb := eventbus.NewEventBus()
	svc := NewPredictionService(fp, eb, nil)
	svc.Start()
	defer func() {
		svc.Stop()
		eb.Close()
	}()

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Seq: 1}))
	require.Eventually(t, func() bool { return fp.callCount() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Seq: 2}))

	select {
	case <-fp.canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("first request was not cancelled")
	}

	seen := map[uint64]bool{}
	for i := 0; i < 2; i++ {
		ev := nextEvent(t, eb).(eventbus.PredictionEvent)
		seen[ev.Outcome.Seq] = true
		if ev.Outcome.Seq == 1 {
			assert.Equal(t, predict.MsgConnection, predict.UserMessage(ev.Outcome.Err))
		} else {
			assert.NoError(t, ev.Outcome.Err)
		}
	}
	assert.True(t, seen[1])
	assert.True(t, seen[2])
}

func TestPredictionService_Ping(t *testing.T) {
	t.Parallel()

	fp := &fakePredictor{pingMsg: "Welcome"}
	eb := eventbus.NewEventBus()
	svc := NewPredictionService(fp, eb, nil)
	svc.Start()
	defer func() {
		svc.Stop()
		eb.Close()
	}()

	require.NoError(t, eb.SendToCore(eventbus.PingEvent{}))

	ev := nextEvent(t, eb).(eventbus.EndpointStatusEvent)
	assert.Equal(t, "Welcome", ev.Message)
	assert.NoError(t, ev.Err)
}

func TestPredictionService_StopUnblocksRequests(t *testing.T) {
	t.Parallel()

	fp := &fakePredictor{block: make(chan struct{})}
	eb := eventbus.NewEventBus()
	svc := NewPredictionService(fp, eb, nil)
	svc.Start()

	require.NoError(t, eb.SendToCore(eventbus.SubmitEvent{Seq: 1}))
	require.Eventually(t, func() bool { return fp.callCount() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	eb.Close()
}
