package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/pagingsim/simulation"
)

var serveFlags struct {
	port      int
	frames    int
	algorithm string
	output    string
	open      bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulator web server",
	Long: `Start the simulator web server. Configuration is taken from ` +
		`flags, falling back to the PAGINGSIM_* environment variables, which ` +
		`can also be provided through a .env file.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0,
		"port of the web server, 0 picks a random port")
	serveCmd.Flags().IntVar(&serveFlags.frames, "frames", 8,
		"initial number of physical frames")
	serveCmd.Flags().StringVar(&serveFlags.algorithm, "algorithm", "FIFO",
		"initial replacement policy, FIFO or LRU")
	serveCmd.Flags().StringVar(&serveFlags.output, "output", "",
		"access-trace database name, without the .sqlite3 suffix")
	serveCmd.Flags().BoolVar(&serveFlags.open, "open", false,
		"open the frontend in the default browser")
}

func runServe(cmd *cobra.Command, _ []string) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	applyEnvDefaults(cmd)

	builder := simulation.MakeBuilder().
		WithFrameCount(serveFlags.frames).
		WithAlgorithm(serveFlags.algorithm).
		WithOutputFileName(serveFlags.output)
	if serveFlags.port > 0 {
		builder = builder.WithMonitorPort(serveFlags.port)
	}

	s := builder.Build()

	if serveFlags.open {
		url := fmt.Sprintf("http://localhost:%d", s.Port())
		err := browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open browser: %s\n", err)
		}
	}

	waitForInterrupt()

	s.Terminate()
}

// applyEnvDefaults fills every flag the user did not set from the matching
// PAGINGSIM_* environment variable.
func applyEnvDefaults(cmd *cobra.Command) {
	if !cmd.Flags().Changed("port") {
		if v, ok := envInt("PAGINGSIM_PORT"); ok {
			serveFlags.port = v
		}
	}

	if !cmd.Flags().Changed("frames") {
		if v, ok := envInt("PAGINGSIM_FRAMES"); ok {
			serveFlags.frames = v
		}
	}

	if !cmd.Flags().Changed("algorithm") {
		if v, ok := os.LookupEnv("PAGINGSIM_ALGORITHM"); ok {
			serveFlags.algorithm = v
		}
	}

	if !cmd.Flags().Changed("output") {
		if v, ok := os.LookupEnv("PAGINGSIM_TRACE"); ok {
			serveFlags.output = v
		}
	}
}

func envInt(name string) (int, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ignoring %s=%q: not a number\n", name, value)
		return 0, false
	}

	return number, true
}

func waitForInterrupt() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals
}
