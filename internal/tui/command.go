package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

var commandAliases = map[string]string{
	"c": "chat",
	"s": "search",
	"h": "help",
	"q": "quit",
}

// ParseCommand parses a command string (without the leading ':'). Short
// aliases are expanded to their full names.
func ParseCommand(input string) Command {
	input = strings.TrimPrefix(strings.TrimSpace(input), ":")
	name, args, _ := strings.Cut(input, " ")
	cmd := Command{Name: strings.ToLower(name), Args: strings.TrimSpace(args)}
	if full, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = full
	}
	return cmd
}

// commandNames is offered by the command prompt's autocomplete.
var commandNames = []string{"chat", "search", "help", "quit", "chats", "contacts", "profile", "settings"}

// completeCommand returns autocomplete entries for a partially typed command.
// After "chat " it completes conversation names.
func completeCommand(text string, names []string) []string {
	var out []string
	if prefix, ok := strings.CutPrefix(text, "chat "); ok {
		prefix = strings.ToLower(prefix)
		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), prefix) {
				out = append(out, "chat "+n)
			}
		}
		return out
	}
	lower := strings.ToLower(text)
	for _, n := range commandNames {
		if strings.HasPrefix(n, lower) && n != lower {
			out = append(out, n)
		}
	}
	return out
}
