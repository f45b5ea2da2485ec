package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/yvision/cli/config"
	"github.com/petal-labs/yvision/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	keys := &cobra.Command{
		Use:   "keys",
		Short: "Manage stored credentials",
		Long: `Manage API keys and IAM tokens. Credentials are stored encrypted in
~/.yvision/keys.enc. Set YVISION_MASTER_KEY to choose the encryption secret.`,
	}

	keys.AddCommand(&cobra.Command{
		Use:   "set [name]",
		Short: "Store a credential",
		Long:  `Store a credential under name (default yandex-vision). The value is prompted without echo.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.keyName(args)

			fmt.Fprintf(a.stderr, "Enter credential for %s: ", name)
			secret, err := a.readSecret()
			if err != nil {
				return a.handleError(configError(fmt.Errorf("failed to read credential: %w", err)))
			}
			if secret == "" {
				return a.handleError(configError(errors.New("credential cannot be empty")))
			}

			ks, err := a.newKeystore()
			if err != nil {
				return a.handleError(configError(fmt.Errorf("failed to open keystore: %w", err)))
			}
			if err := ks.Set(name, secret); err != nil {
				return a.handleError(configError(fmt.Errorf("failed to store credential: %w", err)))
			}

			fmt.Fprintf(a.stdout, "Credential %s stored.\n", name)
			return nil
		},
	})

	keys.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Long:  `List stored credential names. Values are never shown.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.newKeystore()
			if err != nil {
				return a.handleError(configError(fmt.Errorf("failed to open keystore: %w", err)))
			}
			names, err := ks.List()
			if err != nil {
				return a.handleError(configError(fmt.Errorf("failed to list credentials: %w", err)))
			}

			if a.jsonOutput {
				return a.writeJSON(map[string][]string{"keys": names})
			}
			if len(names) == 0 {
				fmt.Fprintln(a.stdout, "No credentials stored.")
				return nil
			}
			fmt.Fprintln(a.stdout, "Stored credentials:")
			for _, name := range names {
				fmt.Fprintf(a.stdout, "  - %s\n", name)
			}
			return nil
		},
	})

	keys.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored credential",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.keyName(args)

			ks, err := a.newKeystore()
			if err != nil {
				return a.handleError(configError(fmt.Errorf("failed to open keystore: %w", err)))
			}
			if err := ks.Delete(name); err != nil {
				var notFound *keystore.ErrKeyNotFound
				if errors.As(err, &notFound) {
					return a.handleError(configError(fmt.Errorf("no credential stored for %s", name)))
				}
				return a.handleError(configError(fmt.Errorf("failed to delete credential: %w", err)))
			}

			fmt.Fprintf(a.stdout, "Credential %s deleted.\n", name)
			return nil
		},
	})

	return keys
}

// keyName returns the explicit name or the configured key reference.
func (a *App) keyName(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	if a.cfg != nil {
		return a.cfg.KeyRef()
	}
	return config.DefaultKeyRef
}

// readSecret reads one line from stdin, without echo on a terminal.
func (a *App) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
