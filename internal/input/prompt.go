package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks for speed and angle on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// Banner prints the tool heading.
func (p *Prompter) Banner() {
	fmt.Fprintln(p.out, "BALL ON A TABLE SIMULATION")
	fmt.Fprintln(p.out, "--------------------------")
}

// ReadLaunch prompts for both values and validates them.
func (p *Prompter) ReadLaunch() (Launch, error) {
	speed, err := p.ask("Enter speed (m/s): ")
	if err != nil {
		return Launch{}, err
	}
	angle, err := p.ask("Enter angle (degrees): ")
	if err != nil {
		return Launch{}, err
	}
	return ParseLaunch(speed, angle)
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		if err == io.EOF {
			return "", fmt.Errorf("reading answer: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
