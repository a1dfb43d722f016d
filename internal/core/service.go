package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
)

// PredictionService performs prediction requests off the UI goroutine.
// It never touches form state; outcomes go back to the UI as events.
type PredictionService struct {
	predictor predict.Predictor
	eventBus  *eventbus.EventBus
	log       *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	mu          sync.Mutex
	inflight    context.CancelFunc // cancels the request of the latest submission
	inflightSeq uint64
}

func NewPredictionService(predictor predict.Predictor, eb *eventbus.EventBus, log *zap.Logger) *PredictionService {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PredictionService{
		predictor: predictor,
		eventBus:  eb,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start runs the core logic in a goroutine
func (ps *PredictionService) Start() {
	ps.wg.Add(1)
	go func() {
		defer ps.wg.Done()
		ps.eventLoop()
	}()
}

// Stop cancels in-flight requests and waits for workers to exit
func (ps *PredictionService) Stop() {
	ps.cancel()
	ps.wg.Wait()
}

func (ps *PredictionService) eventLoop() {
	for {
		select {
		case <-ps.ctx.Done():
			return
		case event, ok := <-ps.eventBus.UIToCore():
			if !ok {
				return
			}
			ps.handleUIEvent(event)
		}
	}
}

func (ps *PredictionService) handleUIEvent(event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.SubmitEvent:
		ps.submit(e)
	case eventbus.PingEvent:
		ps.wg.Add(1)
		go func() {
			defer ps.wg.Done()
			ps.ping()
		}()
	}
}

func (ps *PredictionService) submit(e eventbus.SubmitEvent) {
	reqCtx, reqCancel := context.WithCancel(ps.ctx)

	ps.mu.Lock()
	if ps.inflight != nil {
		ps.log.Debug("cancelling superseded prediction", zap.Uint64("seq", ps.inflightSeq))
		ps.inflight()
	}
	ps.inflight = reqCancel
	ps.inflightSeq = e.Seq
	ps.mu.Unlock()

	ps.wg.Add(1)
	go func() {
		defer ps.wg.Done()
		defer ps.finish(e.Seq, reqCancel)
		ps.predict(reqCtx, e)
	}()
}

func (ps *PredictionService) finish(seq uint64, cancel context.CancelFunc) {
	cancel()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.inflightSeq == seq {
		ps.inflight = nil
	}
}

func (ps *PredictionService) predict(ctx context.Context, e eventbus.SubmitEvent) {
	ps.log.Info("submitting prediction", zap.Uint64("seq", e.Seq), zap.Float64s("features", e.Features[:]))

	start := time.Now()
	result, err := ps.predictor.Predict(ctx, e.Features)
	outcome := models.Outcome{Seq: e.Seq, Result: result, Err: err}

	if err != nil {
		ps.log.Warn("prediction failed",
			zap.Uint64("seq", e.Seq),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
	} else {
		ps.log.Info("prediction received",
			zap.Uint64("seq", e.Seq),
			zap.Int("prediction", result.Prediction),
			zap.Float64("probability", result.Probability),
			zap.Duration("latency", time.Since(start)),
		)
	}

	if err := ps.eventBus.SendToUI(eventbus.PredictionEvent{Outcome: outcome}); err != nil {
		ps.log.Error("failed to deliver prediction to UI", zap.Uint64("seq", e.Seq), zap.Error(err))
	}
}

func (ps *PredictionService) ping() {
	ctx, cancel := context.WithTimeout(ps.ctx, 5*time.Second)
	defer cancel()

	msg, err := ps.predictor.Ping(ctx)
	if err != nil {
		ps.log.Warn("endpoint ping failed", zap.Error(err))
	} else {
		ps.log.Info("endpoint reachable", zap.String("message", msg))
	}

	if err := ps.eventBus.SendToUI(eventbus.EndpointStatusEvent{Message: msg, Err: err}); err != nil {
		ps.log.Error("failed to deliver endpoint status to UI", zap.Error(err))
	}
}
