package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lencelabs/lence/internal/server"
	"github.com/lencelabs/lence/internal/service"
	"github.com/lencelabs/lence/internal/ui"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve [project]",
	Short: "Run the production server",
	Long: `Run the production server.

PROJECT is the path to your lence project (default: current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectDir := "."
		if len(args) > 0 {
			projectDir = args[0]
		}

		a, err := loadApp(projectDir, service.ModeServe)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := fmt.Sprintf("%s:%d", serveHost, servePort)
		fmt.Fprintf(os.Stderr, "Starting Lence server for: %s\n", ui.Styled(ui.Accent, a.project.Dir))
		fmt.Fprintf(os.Stderr, "Running at: %s\n", ui.Styled(ui.Bold, "http://"+addr))

		srv := server.New(a.project, a.cfg, a.svc, a.logger)
		return http.ListenAndServe(addr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to bind to")
	rootCmd.AddCommand(serveCmd)
}
