package update

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
)

func newAppModel(values [fields.Count]string) *models.AppModel {
	return &models.AppModel{Form: filledForm(values), Endpoint: "http://localhost:5000"}
}

func drain(eb *eventbus.EventBus) []eventbus.UIEvent {
	var out []eventbus.UIEvent
	for {
		select {
		case ev := <-eb.UIToCore():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestRequestSubmission_ValidSendsOneEvent(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := newAppModel(validValues)

	RequestSubmission(m, eb)

	events := drain(eb)
	require.Len(t, events, 1)
	submit := events[0].(eventbus.SubmitEvent)
	assert.Equal(t, m.Form.Seq, submit.Seq)
	assert.Equal(t, [fields.Count]float64{34, 58000, 2, 1, 0, 4, 0.35}, submit.Features)
	assert.Equal(t, "Submitting", m.Status)
}

func TestRequestSubmission_InvalidSendsNothing(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := newAppModel([fields.Count]string{"34", "58000", "2", "1", "0", "4", "7"})
	m.Form.Result = &predict.Result{Prediction: 1, Probability: 0.5}

	RequestSubmission(m, eb)

	assert.Empty(t, drain(eb))
	assert.Equal(t, predict.MsgValidation, m.Form.SubmissionError)
	assert.Nil(t, m.Form.Result)
}

func TestRequestSubmission_BusClosed(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	eb.Close()
	m := newAppModel(validValues)

	RequestSubmission(m, eb)

	assert.Equal(t, predict.MsgConnection, m.Form.SubmissionError)
	assert.Equal(t, models.Failed, m.Form.Phase)
}

func TestHandleKeyMsg_FocusCycling(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := newAppModel(validValues)

	for i := 1; i <= SubmitFocus; i++ {
		_, handled := HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyTab}, eb)
		require.True(t, handled)
		assert.Equal(t, i, m.Focus)
	}

	// wraps to the first field
	HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyTab}, eb)
	assert.Equal(t, 0, m.Focus)

	// and back to the submit button
	HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyShiftTab}, eb)
	assert.Equal(t, SubmitFocus, m.Focus)
}

func TestHandleKeyMsg_EnterOnSubmit(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := newAppModel(validValues)

	HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyEnter}, eb)
	assert.Equal(t, 1, m.Focus)
	assert.Empty(t, drain(eb))

	m.Focus = SubmitFocus
	HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyEnter}, eb)
	assert.Len(t, drain(eb), 1)
}

func TestHandleKeyMsg_TypingIsNotHandled(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := newAppModel(validValues)

	_, handled := HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'7'}}, eb)
	assert.False(t, handled)

	cmd, handled := HandleKeyMsgWithEventBus(m, tea.KeyMsg{Type: tea.KeyCtrlC}, eb)
	assert.True(t, handled)
	assert.NotNil(t, cmd)
}

func TestHandleCoreEvent(t *testing.T) {
	t.Parallel()

	eb := eventbus.NewEventBus()
	defer eb.Close()
	m := newAppModel(validValues)
	RequestSubmission(m, eb)

	HandleCoreEvent(m, CoreEventMsg{Event: eventbus.PredictionEvent{Outcome: models.Outcome{
		Seq: m.Form.Seq,
		Err: &predict.APIError{StatusCode: 503, Message: "model unavailable"},
	}}})
	assert.Equal(t, "model unavailable", m.Form.SubmissionError)
	assert.Equal(t, "Failed", m.Status)

	HandleCoreEvent(m, CoreEventMsg{Event: eventbus.EndpointStatusEvent{Err: errors.New("down")}})
	assert.Equal(t, "Endpoint http://localhost:5000 unreachable", m.Status)

	HandleCoreEvent(m, CoreEventMsg{Event: eventbus.EndpointStatusEvent{Message: "Welcome"}})
	assert.Equal(t, "Endpoint http://localhost:5000 [OK]", m.Status)
}

func TestHandleUpdateWithEventBus_WindowSize(t *testing.T) {
	t.Parallel()

	m := newAppModel(validValues)
	_, handled := HandleUpdateWithEventBus(m, tea.WindowSizeMsg{Width: 80, Height: 24}, nil)

	assert.True(t, handled)
	assert.Equal(t, 80, m.Width)
	assert.Equal(t, 24, m.Height)
}
