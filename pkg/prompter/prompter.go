package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zfogg/picfeed/pkg/output"
	"golang.org/x/term"
)

var (
	input  io.Reader = os.Stdin
	reader           = bufio.NewReader(input)
)

// SetInput reads answers from r instead of stdin
func SetInput(r io.Reader) {
	input = r
	reader = bufio.NewReader(r)
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	output.Printf("%s", label)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	answer, err := PromptString(label + " (y/n) ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// ReadKey reads a single keypress. On a terminal stdin is switched to raw
// mode for the read so no Enter is needed.
func ReadKey() (rune, error) {
	if f, ok := input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return 0, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(int(f.Fd()), state)

		var buf [1]byte
		if _, err := f.Read(buf[:]); err != nil {
			return 0, err
		}
		// ctrl-c and ctrl-d quit
		if buf[0] == 3 || buf[0] == 4 {
			return 'q', nil
		}
		return rune(buf[0]), nil
	}

	for {
		r, _, err := reader.ReadRune()
		if err != nil {
			return 0, err
		}
		if r != '\n' && r != '\r' && r != ' ' {
			return r, nil
		}
	}
}
