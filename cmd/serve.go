package cmd

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/addmath/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve printable topic worksheets over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, true)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.ServeAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Serving %d questions at http://%s (Ctrl+C to stop)\n", e.bank.Total(), ln.Addr())
		h := web.NewHandler(e.bank, e.log)
		return web.Serve(ctx, ln, web.NewRouter(h), e.log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides ADDMATH_SERVE_ADDR, default 127.0.0.1:8765)")
}
