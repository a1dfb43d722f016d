package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
)

// SubmitFocus is the focus index of the submit button
const SubmitFocus = fields.Count

// HandleKeyMsgWithEventBus handles navigation and submit keys. It reports
// false for keys that belong to the focused text input.
func HandleKeyMsgWithEventBus(appModel *models.AppModel, keyMsg tea.KeyMsg, eb *eventbus.EventBus) (tea.Cmd, bool) {
	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return tea.Quit, true
	case "tab", "down":
		appModel.Focus = (appModel.Focus + 1) % (SubmitFocus + 1)
		return nil, true
	case "shift+tab", "up":
		appModel.Focus = (appModel.Focus + SubmitFocus) % (SubmitFocus + 1)
		return nil, true
	case "ctrl+s":
		RequestSubmission(appModel, eb)
		return nil, true
	case "enter":
		if appModel.Focus == SubmitFocus {
			RequestSubmission(appModel, eb)
		} else {
			appModel.Focus++
		}
		return nil, true
	}
	return nil, false
}

// RequestSubmission validates the form and hands a valid feature vector
// to the core. It never blocks on the network.
func RequestSubmission(appModel *models.AppModel, eb *eventbus.EventBus) {
	form := appModel.Form
	features, ok := Submit(form)
	if !ok {
		appModel.Status = "Validation failed"
		return
	}

	if err := eb.SendToCore(eventbus.SubmitEvent{Seq: form.Seq, Features: features}); err != nil {
		ApplyOutcome(form, models.Outcome{Seq: form.Seq, Err: &predict.TransportError{Err: err}})
		appModel.Status = "Error sending request: " + err.Error()
		return
	}
	appModel.Status = "Submitting"
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.PredictionEvent:
		if !ApplyOutcome(appModel.Form, event.Outcome) {
			// superseded by a later attempt
			return nil
		}
		appModel.Status = appModel.Form.Phase.String()
	case eventbus.EndpointStatusEvent:
		if event.Err != nil {
			appModel.Status = fmt.Sprintf("Endpoint %s unreachable", appModel.Endpoint)
		} else {
			appModel.Status = fmt.Sprintf("Endpoint %s [OK]", appModel.Endpoint)
		}
	}

	return nil
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}
