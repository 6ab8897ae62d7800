package render

// View is a renderer-agnostic snapshot of a mounted form.
type View struct {
	ID     string      `json:"id"`
	Schema string      `json:"schema,omitempty"`
	Title  string      `json:"title,omitempty"`
	Fields []FieldView `json:"fields"`
	// Submitted is true once the form has been submitted at least once.
	Submitted bool `json:"submitted,omitempty"`
	// Valid is false when any field carries an error.
	Valid bool `json:"valid"`
}

// FieldView is the render state of one input.
type FieldView struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Type        string `json:"type"`
	Value       string `json:"value"`
	// Error is shown only when State is "invalid".
	Error     string `json:"error,omitempty"`
	State     string `json:"state"`
	Required  bool   `json:"required,omitempty"`
	MinLength int    `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// Field returns the view for name.
func (v View) Field(name string) (FieldView, bool) {
	for _, field := range v.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldView{}, false
}

// ShowError reports whether the error message should be displayed.
func (f FieldView) ShowError() bool {
	return f.State == "invalid" && f.Error != ""
}
