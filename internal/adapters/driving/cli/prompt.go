package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	errInputEnded  = errors.New("input ended before the wizard finished")
	errNotTerminal = errors.New("this command needs an interactive terminal; use 'scholardocs requirements' with flags instead")
)

// requireTerminal rejects a piped or redirected os.Stdin. Other readers
// (tests, scripted input via SetIn) are allowed.
func requireTerminal(in io.Reader) error {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return errNotTerminal
	}
	return nil
}

// readAnswer reads one trimmed line. A final line without a newline is
// returned before io.EOF.
func readAnswer(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		if errors.Is(err, io.EOF) {
			return "", errInputEnded
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// askChoice prints numbered options and returns the zero-based pick.
// back is true when the user typed "b" and allowBack is set.
func askChoice(cmd *cobra.Command, reader *bufio.Reader, options []string, allowBack bool) (idx int, back bool, err error) {
	for i, opt := range options {
		cmd.Printf("  %d. %s\n", i+1, opt)
	}
	prompt := fmt.Sprintf("\nEnter choice [1-%d]: ", len(options))
	if allowBack {
		prompt = fmt.Sprintf("\nEnter choice [1-%d, b = back]: ", len(options))
	}

	for {
		cmd.Print(prompt)
		input, err := readAnswer(reader)
		if err != nil {
			return 0, false, err
		}
		if allowBack && strings.EqualFold(input, "b") {
			return 0, true, nil
		}
		if n := parseChoice(input, len(options), 0); n > 0 {
			return n - 1, false, nil
		}
		cmd.Printf("Please enter a number between 1 and %d.\n", len(options))
	}
}

// askYesNo asks a y/n question; an empty answer picks def.
func askYesNo(cmd *cobra.Command, reader *bufio.Reader, question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		cmd.Printf("%s %s: ", question, hint)
		input, err := readAnswer(reader)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		cmd.Println("Please answer y or n.")
	}
}
