package colours

import "github.com/fatih/color"

// Color scheme for the CLI
var (
	Heading = color.New(color.FgCyan, color.Bold)
	Key     = color.New(color.FgMagenta)
	Error   = color.New(color.FgRed, color.Bold)
	Success = color.New(color.FgGreen)
	Info    = color.New(color.FgBlue)
	Warning = color.New(color.FgYellow)
)
