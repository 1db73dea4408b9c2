package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/taskclient"
)

// promptConfirm returns a ConfirmFunc that asks on out and reads one line
// from in. Only "y" and "yes" grant. With yes set nothing is asked.
func promptConfirm(in io.Reader, out io.Writer, yes bool) taskclient.ConfirmFunc {
	if yes {
		return taskclient.Confirmed
	}
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
