package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль из stdin (--password-stdin) или интерактивно без эха.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := trimLineEnd(b)
		if pw == "" {
			return "", errors.New("empty password on stdin")
		}
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password or --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := trimLineEnd(pwBytes)
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// trimLineEnd убирает только перевод строки: пробелы в пароле значимы.
func trimLineEnd(b []byte) string {
	return string(bytes.TrimRight(b, "\r\n"))
}

// resolvePassword — пароль из флага, иначе из stdin или терминала.
func resolvePassword(cmd *cobra.Command, flagValue string, fromStdin bool) (string, error) {
	if flagValue != "" {
		if fromStdin {
			return "", errors.New("--password and --password-stdin are mutually exclusive")
		}
		return flagValue, nil
	}
	return ReadPassword(cmd, fromStdin)
}
