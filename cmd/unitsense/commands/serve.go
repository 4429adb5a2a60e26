package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/earlysvahn/unitsense/internal/server"
	"github.com/earlysvahn/unitsense/internal/session"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	var (
		addr     string
		askRate  float64
		askBurst int
		proxies  []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter page and its JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			if changed(fs, "addr") {
				o.cfg.Server.Addr = addr
			}
			if changed(fs, "ask-rate") {
				o.cfg.Server.AskRate = askRate
			}
			if changed(fs, "ask-burst") {
				o.cfg.Server.AskBurst = askBurst
			}
			if changed(fs, "trusted-proxy") {
				o.cfg.Server.TrustedProxies = proxies
			}
			trusted, err := server.ParseTrustedProxies(o.cfg.Server.TrustedProxies)
			if err != nil {
				return err
			}

			svc, err := o.services()
			if err != nil {
				return err
			}
			defer svc.Close()

			sessions := session.NewManager(o.cfg.Server.SessionIdle)
			defer sessions.Close()
			limiter := server.NewAskLimiter(o.cfg.Server.AskRate, o.cfg.Server.AskBurst)
			defer limiter.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(svc.actions, sessions, limiter, trusted, o.log)
			return server.Run(ctx, o.cfg.Server.Addr, srv.Handler(), o.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Float64Var(&askRate, "ask-rate", 0.5, "asks per second allowed per client IP (0 disables limiting)")
	cmd.Flags().IntVar(&askBurst, "ask-burst", 5, "asks a client IP may make in a burst")
	cmd.Flags().StringSliceVar(&proxies, "trusted-proxy", nil, "IP or CIDR of a reverse proxy whose X-Forwarded-For is believed (repeatable)")
	return cmd
}
