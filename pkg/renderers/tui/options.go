package tui

// Theme captures optional prefixes the editor applies to prompt and info
// messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
}

// Option configures the terminal editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

// WithChangedOnly limits the returned payload to values that differ from the
// schema they were edited from. Groups left without edits are dropped.
func WithChangedOnly(enabled bool) Option {
	return func(e *Editor) {
		e.changedOnly = enabled
	}
}
