package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// aliases maps short forms to command names.
var aliases = map[string]string{
	"q":   "quit",
	"h":   "help",
	"i":   "inbox",
	"a":   "archived",
	"new": "compose",
}

// Commands lists the names the prompt completes.
var Commands = []string{
	"inbox", "sent", "spam", "archived",
	"compose", "refresh", "export", "signout", "help", "quit",
}

// Canonical resolves aliases.
func (c Command) Canonical() Command {
	if name, ok := aliases[c.Name]; ok {
		c.Name = name
	}
	return c
}
