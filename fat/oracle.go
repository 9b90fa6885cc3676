package fat

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AutoOracle answers every question with the caller-supplied default,
// suitable for headless/batch runs. It must be opted into explicitly; there
// is no implicit "just say yes" behavior.
type AutoOracle struct{}

func (AutoOracle) Ask(defaultAnswer bool, prompt string) bool {
	return defaultAnswer
}

// ScriptedOracle replays a fixed sequence of answers, for tests. Once the
// sequence is exhausted it falls back to the default answer passed to Ask.
type ScriptedOracle struct {
	Answers []bool
	calls   int
	Prompts []string
}

func (o *ScriptedOracle) Ask(defaultAnswer bool, prompt string) bool {
	o.Prompts = append(o.Prompts, prompt)
	if o.calls < len(o.Answers) {
		answer := o.Answers[o.calls]
		o.calls++
		return answer
	}
	o.calls++
	return defaultAnswer
}

// Calls returns how many times Ask was invoked.
func (o *ScriptedOracle) Calls() int {
	return o.calls
}

// InteractiveOracle prompts a human on an input/output stream, the way a
// terminal fsck session would.
type InteractiveOracle struct {
	In  io.Reader
	Out io.Writer
}

func (o InteractiveOracle) Ask(defaultAnswer bool, prompt string) bool {
	defaultLabel := "y"
	if !defaultAnswer {
		defaultLabel = "n"
	}
	fmt.Fprintf(o.Out, "%s? [yn] (default %s) ", prompt, defaultLabel)

	scanner := bufio.NewScanner(o.In)
	if !scanner.Scan() {
		return defaultAnswer
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultAnswer
	}
}
