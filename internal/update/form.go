package update

import (
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/models"
	"github.com/Rorical/LeadForm/internal/predict"
)

// EditField stores the raw value of field index and revalidates only that field
func EditField(form *models.FormState, index int, value string) {
	if index < 0 || index >= fields.Count {
		return
	}
	form.Values[index] = value
	form.FieldErrors[index] = fields.Validate(index, value)
}

// Submit runs full-form validation. When the form is valid it returns the
// feature vector to send and true; the caller must issue exactly one request
// tagged with form.Seq. When any field is invalid the form moves to Blocked
// and no request may be sent.
func Submit(form *models.FormState) ([fields.Count]float64, bool) {
	// Coerced before validation, sent only after it passes
	features := fields.Features(form.Values)
	errs := fields.ValidateAll(form.Values)

	form.Seq++

	if fields.HasErrors(errs) {
		form.FieldErrors = errs
		form.SubmissionError = predict.MsgValidation
		form.Result = nil
		form.Phase = models.Blocked
		return features, false
	}

	form.FieldErrors = errs
	form.Phase = models.Submitting
	return features, true
}

// ApplyOutcome records the answer to a submission. Outcomes for anything
// but the latest attempt are ignored and false is returned.
func ApplyOutcome(form *models.FormState, outcome models.Outcome) bool {
	if outcome.Seq != form.Seq {
		return false
	}

	if outcome.Err != nil || outcome.Result == nil {
		form.SubmissionError = predict.UserMessage(outcome.Err)
		if outcome.Err == nil {
			form.SubmissionError = predict.MsgConnection
		}
		form.Result = nil
		form.Phase = models.Failed
		return true
	}

	form.Result = outcome.Result
	form.SubmissionError = ""
	form.Phase = models.Success
	return true
}
