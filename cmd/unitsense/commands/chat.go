package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/earlysvahn/unitsense/internal/render"
	"github.com/earlysvahn/unitsense/internal/session"
	"github.com/earlysvahn/unitsense/internal/widget"
)

func newChatCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively; the history lasts until exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.services()
			if err != nil {
				return err
			}
			defer svc.Close()

			rl, err := readline.New("unitsense> ")
			if err != nil {
				return fmt.Errorf("readline init: %w", err)
			}
			defer rl.Close()

			return runChat(cmd.Context(), rl, svc.actions, rl.Stdout())
		},
	}
}

type lineReader interface {
	Readline() (string, error)
}

func runChat(ctx context.Context, in lineReader, actions *widget.Actions, out io.Writer) error {
	hist := session.NewHistory()
	id := uuid.NewString()

	fmt.Fprintln(out, "Ask a question, or use /convert VALUE FROM TO [CATEGORY] and /history.")
	fmt.Fprintln(out, "Press Ctrl+C or Ctrl+D to exit.")

	for {
		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		switch {
		case input == "":
			continue
		case input == "/history":
			printHistory(out, hist)
		case strings.HasPrefix(input, "/convert"):
			args := strings.Fields(strings.TrimPrefix(input, "/convert"))
			if len(args) != 3 && len(args) != 4 {
				fmt.Fprintln(out, "usage: /convert VALUE FROM TO [CATEGORY]")
				continue
			}
			category := ""
			if len(args) == 4 {
				category = args[3]
			}
			res, err := convertArgs(args[:3], category)
			if err != nil {
				fmt.Fprintf(out, "[warning] %v\n", err)
				continue
			}
			fmt.Fprintln(out, res.Message)
		default:
			reply, err := askWithSpinner(ctx, actions, hist, id, input)
			if err != nil {
				fmt.Fprintf(out, "[warning] %v\n", err)
				continue
			}
			fmt.Fprint(out, render.Answer(reply.Text))
		}
	}
}

func printHistory(w io.Writer, hist *session.History) {
	items := hist.Display()
	if len(items) == 0 {
		fmt.Fprintln(w, "No questions yet.")
		return
	}
	for _, it := range items {
		fmt.Fprintln(w, it.Title())
		fmt.Fprintf(w, "    %s\n", it.Answer)
	}
}
