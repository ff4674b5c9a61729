package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Poll succeeded
	SymbolFail    = "✗" // Poll failed
	SymbolPending = "○" // Not enabled / not started
)
