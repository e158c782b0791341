package core

// DebugWriter is a function type for writing debug messages.
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function, set by platform code.
	debugPrintln DebugWriter = func(string) {}

	// debugEnabled controls whether debug output is active. Disabled by
	// default; the pulse loop logs only at move boundaries, but targets
	// with slow consoles still want it off unless asked for.
	debugEnabled bool
)

// SetDebugWriter sets the platform-specific debug output function, letting
// targets redirect output to a logger, UART or USB console.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer.
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}
