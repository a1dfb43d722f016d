package models

// AppModel represents the UI state - form data plus local UI concerns
type AppModel struct {
	Form     *FormState
	Focus    int    // 0..fields.Count-1 are inputs, fields.Count is the submit button
	Status   string // Status bar text
	Endpoint string // Endpoint shown in the status bar
	Profile  string
	Width    int // Terminal width
	Height   int // Terminal height
}
