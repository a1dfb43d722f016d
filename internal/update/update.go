package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/LeadForm/internal/eventbus"
	"github.com/Rorical/LeadForm/internal/models"
)

// HandleUpdateWithEventBus routes a message to its handler. The second
// result is false when the message was not consumed and should be
// forwarded to the focused input.
func HandleUpdateWithEventBus(appModel *models.AppModel, msg tea.Msg, eb *eventbus.EventBus) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsgWithEventBus(appModel, msg, eb)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil, true
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg), true
	}
	return nil, false
}
