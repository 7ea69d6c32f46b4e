package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser turns raw tokens into CommandArgs according to a flag set.
// Long flags take "--name value" or "--name=value"; short flags may be clustered
// ("-ab") and the last one in a cluster may carry its value ("-tBus").
type Parser struct {
	flagSet *CommandFlagSet
	long    map[string]string
	short   map[string]string
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	p := &Parser{
		flagSet: flagSet,
		long:    make(map[string]string),
		short:   make(map[string]string),
	}

	for key, flag := range flagSet.Flags {
		p.long[flag.Name] = key
		if flag.Short != "" {
			p.short[flag.Short] = key
		}
	}

	return p
}

func (p *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Flags: make(map[string]any),
		Raw:   raw,
	}
	for key, flag := range p.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[key] = flag.Default
		}
	}

	rest := raw
	for len(rest) > 0 {
		token := rest[0]
		rest = rest[1:]

		var consumed int
		var err error

		switch {
		case token == "--":
			args.Args = append(args.Args, rest...)
			rest = nil
		case strings.HasPrefix(token, "--"):
			consumed, err = p.parseLong(args, token[2:], rest)
		case len(token) > 1 && token[0] == '-':
			consumed, err = p.parseShort(args, token[1:], rest)
		default:
			args.Args = append(args.Args, token)
		}

		if err != nil {
			return nil, err
		}
		rest = rest[consumed:]
	}

	if err := p.checkRequired(args); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *Parser) parseLong(args *CommandArgs, token string, next []string) (int, error) {
	name, value, inline := strings.Cut(token, "=")
	key, ok := p.long[name]
	if !ok {
		return 0, fmt.Errorf("unknown flag: --%s", name)
	}

	return p.assign(args, key, "--"+name, value, inline, next)
}

func (p *Parser) parseShort(args *CommandArgs, cluster string, next []string) (int, error) {
	for i, ch := range cluster {
		name := string(ch)
		key, ok := p.short[name]
		if !ok {
			return 0, fmt.Errorf("unknown flag: -%s", name)
		}

		if p.flagSet.Flags[key].Type == "bool" {
			args.Flags[key] = true
			continue
		}

		// a value flag ends the cluster, anything after it is the value
		if remainder := cluster[i+len(name):]; remainder != "" {
			return p.assign(args, key, "-"+name, remainder, true, next)
		}
		return p.assign(args, key, "-"+name, "", false, next)
	}

	return 0, nil
}

// assign stores a value for the flag behind key and returns how many tokens of next it used.
func (p *Parser) assign(args *CommandArgs, key, display, value string, inline bool, next []string) (int, error) {
	flag := p.flagSet.Flags[key]

	switch {
	case flag.Type == "bool" && !inline:
		args.Flags[key] = true
		return 0, nil
	case inline:
		return 0, args.set(key, flag, value)
	case len(next) > 0 && !strings.HasPrefix(next[0], "-"):
		return 1, args.set(key, flag, next[0])
	}

	return 0, fmt.Errorf("flag %s requires a value", display)
}

func (p *Parser) checkRequired(args *CommandArgs) error {
	for key, flag := range p.flagSet.Flags {
		if !flag.Required || args.Has(key) {
			continue
		}
		if flag.Short != "" {
			return fmt.Errorf("required flag: -%s / --%s", flag.Short, flag.Name)
		}
		return fmt.Errorf("required flag: --%s", flag.Name)
	}

	return nil
}

// set stores a flag value; flags declared with Multiple collect every occurrence.
func (a *CommandArgs) set(key string, flag *CommandFlag, value string) error {
	if flag.Multiple {
		values, _ := a.Flags[key].([]string)
		a.Flags[key] = append(values, value)
		return nil
	}

	switch flag.Type {
	case "int":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("flag --%s expects an integer, got '%s'", flag.Name, value)
		}
		a.Flags[key] = v
	case "bool":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("flag --%s expects a boolean, got '%s'", flag.Name, value)
		}
		a.Flags[key] = v
	default:
		a.Flags[key] = value
	}

	return nil
}

// SplitCommandLine splits an operator line into tokens. Single and double quotes
// group words; an unterminated quote is an error.
func SplitCommandLine(line string) ([]string, error) {
	var args []string
	var current strings.Builder
	inQuote := false
	quoted := false
	quoteChar := rune(0)

	for _, ch := range line {
		switch {
		case ch == '"' || ch == '\'':
			if inQuote {
				if ch == quoteChar {
					inQuote = false
					quoteChar = 0
				} else {
					current.WriteRune(ch)
				}
			} else {
				inQuote = true
				quoted = true
				quoteChar = ch
			}

		case (ch == ' ' || ch == '\t') && !inQuote:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}

		default:
			current.WriteRune(ch)
		}
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated quote in: %s", line)
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}

	return args, nil
}
