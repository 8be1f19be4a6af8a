package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// State Errors (E100-E109)
	// ============================================

	"E100": {
		Category:   CategoryState,
		Message:    "Overlay already open",
		Suggestion: "Close or unmount the open overlay first, or pass a different id with overlay.WithID.",
	},
	"E103": {
		Category:   CategoryState,
		Message:    "Nil overlay controller",
		Suggestion: "Pass a render function to Open.",
	},
	"E104": {
		Category:   CategoryState,
		Message:    "Empty overlay id",
		Suggestion: "Omit overlay.WithID to get a generated id.",
	},

	// ============================================
	// Context Errors (E101)
	// ============================================

	"E101": {
		Category:   CategoryContext,
		Message:    "Provider not found",
		Suggestion: "Read overlay state from a component mounted under the system's Provider.",
	},

	// ============================================
	// Lifecycle Errors (E102)
	// ============================================

	"E102": {
		Category:   CategoryLifecycle,
		Message:    "Provider unmounted",
		Suggestion: "Keep the Provider mounted while overlays are being opened.",
	},

	// ============================================
	// Config Errors (E200-E209)
	// ============================================

	"E200": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check ovan.json and the command-line flags.",
	},
	"E201": {
		Category:   CategoryConfig,
		Message:    "Configuration file unreadable",
		Suggestion: "Make sure ovan.json is valid JSON.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
