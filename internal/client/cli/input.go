package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompts go through these variables so tests can answer them without a
// terminal.
var (
	askLine      = readLine
	askSecret    = readSecret
	readPassword = term.ReadPassword
)

// readLine shows "label: " on w and returns the next line of r, trimmed.
// Input that ends without a newline still counts as a line.
func readLine(r *bufio.Reader, label string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s: ", label)

	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret is readLine for passwords: stdin is read with echo off. The
// caller wipes the result.
func readSecret(label string, w io.Writer) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", label)

	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return secret, nil
}
