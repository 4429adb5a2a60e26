package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/earlysvahn/unitsense/internal/cli"
	"github.com/earlysvahn/unitsense/internal/relay"
	"github.com/earlysvahn/unitsense/internal/render"
	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/tui"
	"github.com/earlysvahn/unitsense/internal/widget"
)

func newAskCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask the AI model a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.services()
			if err != nil {
				return err
			}
			defer svc.Close()

			prompt := strings.Join(args, " ")
			reply, err := askWithSpinner(cmd.Context(), svc.actions, session.NewHistory(), uuid.NewString(), prompt)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Answer(reply.Text))
			return nil
		},
	}
}

func askWithSpinner(ctx context.Context, actions *widget.Actions, hist *session.History, sessionID, prompt string) (relay.Reply, error) {
	return cli.WithSpinner("Asking the model...", func() (relay.Reply, error) {
		return actions.Ask(ctx, hist, sessionID, prompt)
	})
}

func newTUICommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the converter as a full-screen terminal app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.services()
			if err != nil {
				return err
			}
			defer svc.Close()

			return tui.Run(tui.Config{
				Actions:   svc.actions,
				History:   session.NewHistory(),
				SessionID: uuid.NewString(),
			})
		},
	}
}
