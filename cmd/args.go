package cmd

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// String returns a string flag, or "" when unset.
func (a *CommandArgs) String(name string) string {
	value, _ := a.Flags[name].(string)
	return value
}

// Has reports whether the flag was given or has a default.
func (a *CommandArgs) Has(name string) bool {
	_, ok := a.Flags[name]
	return ok
}

func (a *CommandArgs) Bool(name string) bool {
	value, _ := a.Flags[name].(bool)
	return value
}

func (a *CommandArgs) Int(name string) int64 {
	value, _ := a.Flags[name].(int64)
	return value
}

// Strings returns every value of a flag declared with Multiple.
func (a *CommandArgs) Strings(name string) []string {
	switch value := a.Flags[name].(type) {
	case []string:
		return value
	case string:
		return []string{value}
	}
	return nil
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "title" or "t"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "t")
	Type        string `json:"type"`              // "string", "bool", "int"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
	Multiple    bool   `json:"multiple"`          // Can be specified multiple times
}
