package exitcodes

const (
	// ExitCodeSuccess indicates no errors or failures had occurred.
	ExitCodeSuccess = 0

	// ExitCodeGeneralError indicates some type of general error occurred.
	ExitCodeGeneralError = 1

	// Exit codes 2-5 are commonly reserved by shells and runtimes, so
	// application-specific codes start at 6.

	// ExitCodeExtractionError indicates interface extraction failed for at least one
	// discovered contract.
	ExitCodeExtractionError = 6
)
