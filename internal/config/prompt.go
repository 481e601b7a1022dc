package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks for settings that were not supplied up front.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// echo controls whether questions are printed; piped input is read silently.
	echo bool
}

// NewPrompter creates a Prompter reading from in and writing questions to out.
func NewPrompter(in io.Reader, out io.Writer, echo bool) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, echo: echo}
}

// StdinPrompter prompts on the terminal, or reads silently when stdin is piped.
func StdinPrompter() *Prompter {
	return NewPrompter(os.Stdin, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))
}

// Complete fills in the group URL and repository list of cfg when they are empty.
func (p *Prompter) Complete(cfg *Config) error {
	if cfg.GroupURL == "" {
		answer, err := p.ask("Enter GitHub group URL (e.g. 'https://github.com/SolveCare/'): ")
		if err != nil {
			return err
		}
		cfg.GroupURL = answer
	}
	if cfg.GroupURL == "" {
		return &Error{Key: "group-url", Reason: "no organization URL given"}
	}
	if len(cfg.Repos) == 0 {
		answer, err := p.ask("Enter repositories to clone separated by space: ")
		if err != nil {
			return err
		}
		cfg.Repos = strings.Fields(answer)
	}
	cfg.Repos = UniqueRepos(cfg.Repos)
	if len(cfg.Repos) == 0 {
		return &Error{Key: "repos", Reason: "no repositories given"}
	}
	return nil
}

func (p *Prompter) ask(question string) (string, error) {
	if p.echo {
		fmt.Fprint(p.out, question)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
