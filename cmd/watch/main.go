// Command watch follows a rollcall server from the terminal: it syncs the
// candidate roster over the push channel (with pull fallback) and prints the
// roster whenever it changes. With --generate it also asks the server to
// synthesize a random candidate on an interval.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/platform/logger"
	"rollcall/pkg/client"
)

func main() {
	if err := newWatchCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newWatchCmd() *cobra.Command {
	var (
		serverURL string
		interval  time.Duration
		generate  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow a rollcall server's candidate roster",
		Long: `Connects to a rollcall server, keeps a synced local copy of the candidate
roster, and prints it whenever it changes.

Examples:
  # Follow a local server
  watch --server http://localhost:8080

  # Poll every 10s and generate a random candidate every 30s
  watch --interval 10s --generate 30s
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(serverURL, interval, generate)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the rollcall server")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Pull fallback interval")
	cmd.Flags().DurationVar(&generate, "generate", 0, "Generate a random candidate on this interval (0 disables)")

	return cmd
}

func runWatch(serverURL string, interval, generate time.Duration) error {
	log := logger.New()

	c := client.New(serverURL,
		client.WithLogger(log),
		client.WithPullInterval(interval),
		client.WithOnChange(printSnapshot),
	)
	c.Start()
	defer c.Stop()

	if generate > 0 {
		g := client.NewGenerator(serverURL, generate, client.GeneratorWithLogger(log))
		g.Start()
		defer g.Stop()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	fmt.Println("\nbye")
	return nil
}

func printSnapshot(snap client.Snapshot) {
	fmt.Printf("--- %s", snap.State)
	if snap.LastError != "" {
		fmt.Printf(" (%s)", snap.LastError)
	}
	fmt.Printf(" | %d candidates ---\n", len(snap.Candidates))
	for _, c := range snap.Candidates {
		fmt.Printf("%4d  %-30s %s\n", c.ID, c.Name, c.PoliticalParty)
	}
	for _, st := range snap.Stats {
		fmt.Printf("      %-30s %d\n", st.Party, st.Count)
	}
}
