package vanilla

// Class is a semantic CSS class emitted by the templates.
type Class string

const (
	ClassForm    Class = "fb-form"
	ClassTitle   Class = "fb-title"
	ClassField   Class = "fb-field"
	ClassLabel   Class = "fb-label"
	ClassInput   Class = "fb-input"
	ClassError   Class = "fb-error"
	ClassActions Class = "fb-actions"
)

func classData() map[string]any {
	return map[string]any{
		"form_class":    string(ClassForm),
		"title_class":   string(ClassTitle),
		"field_class":   string(ClassField),
		"label_class":   string(ClassLabel),
		"input_class":   string(ClassInput),
		"error_class":   string(ClassError),
		"actions_class": string(ClassActions),
	}
}
