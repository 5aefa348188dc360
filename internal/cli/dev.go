package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lencelabs/lence/internal/server"
	"github.com/lencelabs/lence/internal/service"
	"github.com/lencelabs/lence/internal/ui"
	"github.com/lencelabs/lence/internal/watcher"
)

var (
	devHost string
	devPort int
	devEdit bool
)

var devCmd = &cobra.Command{
	Use:   "dev [project]",
	Short: "Run the development server with auto-reload",
	Long: `Run the development server.

Pages are rescanned automatically when markdown files change, so new and
edited queries are picked up without a restart. With --edit, requests may
carry inline source and sql for queries that are not registered yet,
enabling live authoring from the browser.

PROJECT is the path to your lence project (default: current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) > 0 {
			projectDir = args[0]
		}

		mode := service.ModeServe
		if devEdit {
			mode = service.ModeEdit
		}

		a, err := loadApp(projectDir, mode)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := watcher.New(watcher.Config{
			PagesDir: a.project.PagesDir(),
			Store:    a.store,
			Logger:   a.logger,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("watcher stopped", "error", err)
			}
		}()

		addr := fmt.Sprintf("%s:%d", devHost, devPort)
		fmt.Fprintf(os.Stderr, "Starting Lence dev server for: %s\n", ui.Styled(ui.Accent, a.project.Dir))
		fmt.Fprintf(os.Stderr, "Running at: %s\n", ui.Styled(ui.Bold, "http://"+addr))
		if devEdit {
			fmt.Fprintln(os.Stderr, ui.Styled(ui.Muted, "Edit mode enabled: inline queries are accepted"))
		}

		srv := &http.Server{
			Addr:    addr,
			Handler: server.New(a.project, a.cfg, a.svc, a.logger).Handler(),
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	devCmd.Flags().StringVar(&devHost, "host", "127.0.0.1", "Host to bind to")
	devCmd.Flags().IntVar(&devPort, "port", 8000, "Port to bind to")
	devCmd.Flags().BoolVar(&devEdit, "edit", false, "Enable edit mode (inline unregistered queries)")
	rootCmd.AddCommand(devCmd)
}
