package contact

const (
	buttonLabel        = "Send Message"
	buttonLabelSending = "Sending..."

	statusClassSuccess = "text-green-400"
	statusClassError   = "text-red-400"
)

// Attributes are the render-ready properties of the contact form.
type Attributes struct {
	ButtonLabel    string
	ButtonDisabled bool
	StatusText     string
	StatusClass    string
	ShowStatus     bool
}

// Display derives the form's display attributes from a View.
func Display(v View) Attributes {
	a := Attributes{
		ButtonLabel:    buttonLabel,
		ButtonDisabled: !v.SubmitEnabled(),
		StatusText:     v.Status,
		ShowStatus:     v.Status != "",
	}
	if a.ButtonDisabled {
		a.ButtonLabel = buttonLabelSending
	}
	switch v.State {
	case StateSucceeded:
		a.StatusClass = statusClassSuccess
	case StateFailed:
		a.StatusClass = statusClassError
	}
	return a
}
