package components

import (
	"fmt"

	"github.com/Rorical/LeadForm/ui/styles"
)

func RenderStatus(status, profile, endpoint string, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := status
	if statusContent == "" {
		statusContent = "Ready"
	}
	if profile != "" {
		statusContent = fmt.Sprintf("%s | profile %s | %s", statusContent, profile, endpoint)
	}

	return statusStyle.Render(statusContent)
}

func RenderHelp() string {
	return styles.HelpStyle().Render("tab/↓ next • shift+tab/↑ previous • enter next/submit • ctrl+s submit • esc quit")
}
