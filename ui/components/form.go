package components

import (
	"strings"

	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/ui/styles"
)

// RenderField renders one labeled input with its inline error.
// input is the already rendered text input.
func RenderField(index int, input, errMsg string, focused bool, width int) string {
	spec, ok := fields.Get(index)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.LabelStyle(focused).Render(spec.Label+":") + "\n")
	b.WriteString(styles.InputStyle(width, focused).Render(input) + "\n")
	if errMsg != "" {
		b.WriteString(styles.FieldErrorStyle().Render(errMsg) + "\n")
	}
	return b.String()
}

func RenderSubmitButton(focused bool) string {
	return styles.ButtonStyle(focused).Render("Predict") + "\n"
}

func RenderTitle() string {
	return styles.TitleStyle().Render("Marketing Campaign Predictor") + "\n"
}
