package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rorical/LeadForm/internal/predict"
	"github.com/Rorical/LeadForm/ui/styles"
)

const (
	LabelPositive = "✅ Likely to Respond"
	LabelNegative = "❌ Unlikely to Respond"
)

// PredictionLabel is the display text for a prediction class
func PredictionLabel(prediction int) string {
	if prediction == 1 {
		return LabelPositive
	}
	return LabelNegative
}

// Percent renders a probability as a whole percentage, 0.8734 -> "87%"
func Percent(probability float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(probability*100)))
}

// RenderResult renders the result block, or nothing when there is no result
func RenderResult(result *predict.Result) string {
	if result == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("Result:\n")
	b.WriteString("Prediction: " + PredictionLabel(result.Prediction) + "\n")
	b.WriteString("Probability: " + Percent(result.Probability))

	return styles.ResultStyle(result.Prediction == 1).Render(b.String()) + "\n"
}

// RenderSubmissionError renders the top-level error line
func RenderSubmissionError(msg string) string {
	if msg == "" {
		return ""
	}
	return styles.ErrorStyle().Render(msg) + "\n"
}
