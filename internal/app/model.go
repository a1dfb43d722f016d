package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeadForm/internal/dispatcher"
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/update"
	"github.com/Rorical/LeadForm/ui/components"
)

type AppModel struct {
	appModel   models.AppModel
	inputs     [fields.Count]textinput.Model
	dispatcher *dispatcher.EventDispatcher
}

func NewAppModel(state models.AppModel, disp *dispatcher.EventDispatcher) *AppModel {
	m := &AppModel{
		appModel:   state,
		dispatcher: disp,
	}
	for i, spec := range fields.Specs() {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.Placeholder
		in.CharLimit = 32
		in.Width = 40
		in.SetValue(state.Form.Values[i])
		m.inputs[i] = in
	}
	m.syncFocus()
	return m
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle core events and continue listening
	if coreEvent, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.HandleCoreEvent(&m.appModel, coreEvent)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	eventBus := m.dispatcher.GetEventBus()
	if cmd, handled := update.HandleUpdateWithEventBus(&m.appModel, msg, eventBus); handled {
		m.syncFocus()
		return m, cmd
	}

	return m, m.updateFocusedInput(msg)
}

// updateFocusedInput lets the focused text input consume msg and records
// the edit when its value changed
func (m *AppModel) updateFocusedInput(msg tea.Msg) tea.Cmd {
	focus := m.appModel.Focus
	if focus < 0 || focus >= fields.Count {
		return nil
	}

	var cmd tea.Cmd
	m.inputs[focus], cmd = m.inputs[focus].Update(msg)

	if value := m.inputs[focus].Value(); value != m.appModel.Form.Values[focus] {
		update.EditField(m.appModel.Form, focus, value)
	}
	return cmd
}

func (m *AppModel) syncFocus() {
	for i := range m.inputs {
		if i == m.appModel.Focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *AppModel) View() string {
	var b strings.Builder
	form := m.appModel.Form
	width := m.appModel.Width
	if width == 0 {
		width = 60
	}

	b.WriteString(components.RenderTitle())
	for i := range m.inputs {
		b.WriteString(components.RenderField(i, m.inputs[i].View(), form.FieldErrors[i], m.appModel.Focus == i, width))
	}
	b.WriteString(components.RenderSubmitButton(m.appModel.Focus == update.SubmitFocus))
	b.WriteString("\n")
	b.WriteString(components.RenderSubmissionError(form.SubmissionError))
	b.WriteString(components.RenderResult(form.Result))
	b.WriteString("\n")
	b.WriteString(components.RenderHelp())
	b.WriteString("\n")
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Profile, m.appModel.Endpoint, width))

	return b.String()
}
