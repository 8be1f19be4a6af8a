// Package errors provides coded, structured errors for the overlay engine.
//
// Every error raised by the engine for caller misuse carries a stable code
// (e.g., "E100") that maps to a short message, a longer explanation and a
// hint on how to fix the call site.
//
// # Error Categories
//
//   - state: registry transitions the reducer refuses (duplicate open)
//   - context: consumer lookups outside their owning provider
//   - lifecycle: commands issued against a torn-down provider
//   - config: invalid inspector or system configuration
//
// # Usage
//
//	err := errors.New("E100").
//	    WithDetail(fmt.Sprintf("overlay %q is already open", id)).
//	    WithSuggestion("Pass a different id with overlay.WithID")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E100: Overlay already open
//	//
//	//   overlay "confirm" is already open
//	//
//	//   Hint: Pass a different id with overlay.WithID
package errors
