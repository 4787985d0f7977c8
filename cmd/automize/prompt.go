package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// errPromptAborted is returned when the user interrupts a prompt.
var errPromptAborted = errors.New("prompt aborted")

// canPrompt reports whether stdin is an interactive terminal.
var canPrompt = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// credential names one value a command needs and how to ask for it.
type credential struct {
	flag   string
	label  string
	secret bool
	value  *string
}

// fillCredentials prompts for every empty credential. Without a terminal a
// missing value is an error naming its flag.
func fillCredentials(creds ...credential) error {
	for _, c := range creds {
		if *c.value != "" {
			continue
		}
		if !canPrompt() {
			return fmt.Errorf("missing --%s", c.flag)
		}
		var prompt survey.Prompt = &survey.Input{Message: c.label + ":"}
		if c.secret {
			prompt = &survey.Password{Message: c.label + ":"}
		}
		if err := survey.AskOne(prompt, c.value, survey.WithValidator(survey.Required)); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return errPromptAborted
			}
			return fmt.Errorf("reading %s: %w", c.flag, err)
		}
	}
	return nil
}

// readPasswordStdin reads the first line of r as a password.
func readPasswordStdin(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password from stdin: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("empty password on stdin")
	}
	return pw, nil
}

// passwordFlags resolves --password and --password-stdin.
func passwordFlags(password string, fromStdin bool, stdin io.Reader) (string, error) {
	if !fromStdin {
		return password, nil
	}
	if password != "" {
		return "", errors.New("--password and --password-stdin are mutually exclusive")
	}
	return readPasswordStdin(stdin)
}
