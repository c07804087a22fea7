package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/daypoll"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for day changes in the foreground",
	Long: `Run in the foreground and announce when the local date rolls over.

On each rollover the previous day's record is summarized. Useful in a
spare terminal during long sessions, so fetches land in the right day.
Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", daypoll.DefaultInterval, "how often to check the clock")
}

func runWatch(cmd *cobra.Command, args []string) error {
	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	poller := daypoll.New(watchInterval)
	poller.Subscribe(func(event daypoll.Event) {
		fmt.Printf("\nDay changed: %s -> %s\n", event.PreviousDate, event.CurrentDate)
		if day, ok := records.DailyRecordForDate(event.PreviousDate); ok {
			fmt.Printf("%s closed with %d model(s) recorded.\n", event.PreviousDate, len(day.Entries))
		} else {
			fmt.Printf("%s closed with no models recorded.\n", event.PreviousDate)
		}
	})

	poller.Start()
	defer poller.Stop()

	// SIGHUP forces an immediate re-check, for hosts that suspend the
	// process across midnight.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	fmt.Printf("Watching for day changes (today is %s, checking every %s)...\n",
		poller.CurrentDate(), watchInterval)

	for {
		select {
		case <-hup:
			poller.Check()
		case <-cmd.Context().Done():
			fmt.Println("\nStopped.")
			return nil
		}
	}
}
