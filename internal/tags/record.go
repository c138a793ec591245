package tags

// Record is the stored tag state for one player identity.
type Record struct {
	Text    string
	Color   Color
	Enabled bool
}

// NewRecord returns the default record: no text, default colour, disabled.
func NewRecord() Record {
	return Record{Color: DefaultColor}
}

// Visible reports whether the tag is shown anywhere.
func (r Record) Visible() bool {
	return r.Enabled && r.Text != ""
}

// FormattedTag renders the bracketed tag in its colour followed by a reset so
// the colour does not bleed into text concatenated after it. Hidden tags
// render as the empty string.
func FormattedTag(r Record) string {
	if !r.Visible() {
		return ""
	}
	return r.Color.Code() + "[" + r.Text + "]" + resetCode
}

// FormattedTag is a convenience wrapper around the package function.
func (r Record) FormattedTag() string {
	return FormattedTag(r)
}
