package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rvno/roadline/pkg/errors"
	"github.com/rvno/roadline/pkg/session"
)

// tokenEnv overrides --token for scripted logins.
const tokenEnv = "ROADLINE_ADMIN_TOKEN"

// sessionCommand creates the command group for the local editor session.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log in as an editor to move markers",
	}
	cmd.AddCommand(c.sessionLoginCommand())
	cmd.AddCommand(c.sessionLogoutCommand())
	cmd.AddCommand(c.sessionStatusCommand())
	return cmd
}

func (c *CLI) sessionLoginCommand() *cobra.Command {
	var (
		token string
		name  string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start an editor session with the admin token",
		Long: `Start an editor session. The token is compared with server.admin_token
from the config; pass it with --token, set ` + tokenEnv + `, or type it
when prompted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if token == "" {
				token = os.Getenv(tokenEnv)
			}
			if token == "" {
				if token, err = promptLine(cmd, "Admin token: "); err != nil {
					return err
				}
			}
			if name == "" {
				name = os.Getenv("USER")
			}
			if ttl <= 0 {
				ttl = cfg.Session.TTL
			}

			sess, err := session.Login(token, cfg.Server.AdminToken, name, ttl)
			if err != nil {
				return err
			}
			store, err := c.sessionStore()
			if err != nil {
				return err
			}
			if err := store.SaveSession(ctx, sess); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "save session")
			}

			printSuccess("Logged in as %s", StyleHighlight.Render(displayName(sess)))
			printDetail("Expires %s", sess.ExpiresAt.Format(time.RFC1123))
			printNewline()
			printNextStep("Move markers", appName+" tui")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "admin token")
	cmd.Flags().StringVar(&name, "name", "", "name recorded with your edits (default $USER)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "session lifetime (default from config)")
	return cmd
}

func (c *CLI) sessionLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the editor session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return err
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "delete session")
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

func (c *CLI) sessionStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an editor session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return err
			}
			sess, err := store.GetSession(cmd.Context())
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "load session")
			}
			if sess == nil {
				printInfo("Not logged in: markers are read-only")
				printNextStep("Log in", appName+" session login")
				return nil
			}
			printKeyValue("Editor", displayName(sess))
			printKeyValue("Role", string(sess.Role))
			printKeyValue("Expires", time.Until(sess.ExpiresAt).Round(time.Minute).String())
			printKeyValue("File", store.Path())
			return nil
		},
	}
}

// requireEditor returns the active CLI session or an UNAUTHORIZED error
// that tells the user how to log in.
func (c *CLI) requireEditor(ctx context.Context) (*session.Session, error) {
	store, err := c.sessionStore()
	if err != nil {
		return nil, err
	}
	sess, err := store.GetSession(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load session")
	}
	if !sess.CanEdit() {
		return nil, errors.New(errors.ErrCodeUnauthorized, "editing needs an editor session: run '%s session login'", appName)
	}
	return sess, nil
}

func displayName(s *session.Session) string {
	if s.Name == "" {
		return "editor"
	}
	return s.Name
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read token")
	}
	return strings.TrimSpace(line), nil
}
