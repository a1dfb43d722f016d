package models

import (
	"github.com/Rorical/LeadForm/internal/fields"
	"github.com/Rorical/LeadForm/internal/predict"
)

// Phase is the submission state shown in the status bar
type Phase int

const (
	Idle Phase = iota
	Blocked
	Submitting
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Blocked:
		return "Blocked"
	case Submitting:
		return "Submitting"
	case Success:
		return "Success"
	case Failed:
		return "Failed"
	default:
		return "Idle"
	}
}

// FormState is the single mutable state of the lead form.
// Values[i] and FieldErrors[i] always describe field i.
type FormState struct {
	Values          [fields.Count]string
	FieldErrors     [fields.Count]string
	SubmissionError string
	Result          *predict.Result
	Seq             uint64 // bumped on every submit attempt
	Phase           Phase
}

func NewFormState() *FormState {
	return &FormState{}
}

// Outcome is the answer to the submission numbered Seq
type Outcome struct {
	Seq    uint64
	Result *predict.Result
	Err    error
}
