package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Rorical/LeadForm/internal/config"
	"github.com/Rorical/LeadForm/internal/core"
	"github.com/Rorical/LeadForm/internal/dispatcher"
	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/logging"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
)

// Application manages the complete application lifecycle
type Application struct {
	config     *config.Config
	log        *zap.Logger
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.PredictionService
	model      *AppModel
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, eris.Wrap(err, "app: load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrap(err, "app: invalid config")
	}

	logger, err := logging.NewFileLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, eris.Wrap(err, "app: init logger")
	}

	client := predict.NewClient(cfg.GetEndpoint(), cfg.GetTimeout(), predict.WithLogger(logger))
	return NewApplicationWith(cfg, client, logger), nil
}

// NewApplicationWith wires an application around an existing predictor
func NewApplicationWith(cfg *config.Config, predictor predict.Predictor, logger *zap.Logger) *Application {
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		logger.Warn("event bus error", zap.String("operation", e.Operation), zap.Error(e.Err))
	})

	disp := dispatcher.NewEventDispatcher(eb)
	service := core.NewPredictionService(predictor, eb, logger)

	return &Application{
		config:     cfg,
		log:        logger,
		eventBus:   eb,
		dispatcher: disp,
		service:    service,
		model:      NewAppModel(createInitialAppModel(cfg), disp),
	}
}

func (app *Application) Start() error {
	app.log.Info("starting lead form",
		zap.String("profile", app.config.ActiveProfile),
		zap.String("endpoint", app.config.GetEndpoint()),
	)
	app.service.Start()

	// Non-blocking reachability check for the status bar
	if err := app.eventBus.SendToCore(eventbus.PingEvent{}); err != nil {
		app.log.Warn("failed to request endpoint ping", zap.Error(err))
	}

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.service.Stop()
	app.dispatcher.Stop()
	app.eventBus.Close()
	_ = app.log.Sync()
}

func createInitialAppModel(cfg *config.Config) models.AppModel {
	return models.AppModel{
		Form:     models.NewFormState(),
		Status:   "Ready",
		Profile:  cfg.ActiveProfile,
		Endpoint: cfg.GetEndpoint(),
	}
}
