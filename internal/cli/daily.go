package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/calendar"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Inspect the daily fetch history",
	Long: `Inspect the per-day record of fetched models.

Every fetch adds its models to that day's record. The subcommands list
the history, resolve one day's models, render a month calendar, and
edit past days.`,
}

var dailyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every recorded day",
	RunE:  runDailyList,
}

var dailyShowCmd = &cobra.Command{
	Use:   "show <date>",
	Short: "Show the models recorded on a day (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDailyShow,
}

var dailyMonthCmd = &cobra.Command{
	Use:   "month <yyyy-mm>",
	Short: "List the recorded days of one month",
	Args:  cobra.ExactArgs(1),
	RunE:  runDailyMonth,
}

var calendarOffset int

var dailyCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Render a month calendar of fetch activity",
	Long: `Render the current month as a calendar grid. Days are shaded by how
many models were recorded. Use --offset to move to another month
(-1 is last month).`,
	RunE: runDailyCalendar,
}

var dailyClearCmd = &cobra.Command{
	Use:   "clear <date>",
	Short: "Delete one day's record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDailyClear,
}

var dailyRemoveCmd = &cobra.Command{
	Use:   "remove <date> <model-id>",
	Short: "Remove one model from a day's record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDailyRemove,
}

var recordDate string

var dailyRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record the whole cache into a day",
	Long: `Add every cached model to a day's record. Defaults to today; --date
backfills an earlier day. Future dates are rejected.`,
	RunE: runDailyRecord,
}

func init() {
	dailyCalendarCmd.Flags().IntVar(&calendarOffset, "offset", 0, "month offset relative to the current month")
	dailyRecordCmd.Flags().StringVar(&recordDate, "date", "", "day to record into (YYYY-MM-DD, default today)")

	dailyCmd.AddCommand(dailyListCmd)
	dailyCmd.AddCommand(dailyShowCmd)
	dailyCmd.AddCommand(dailyMonthCmd)
	dailyCmd.AddCommand(dailyCalendarCmd)
	dailyCmd.AddCommand(dailyClearCmd)
	dailyCmd.AddCommand(dailyRemoveCmd)
	dailyCmd.AddCommand(dailyRecordCmd)
}

func runDailyList(cmd *cobra.Command, args []string) error {
	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	days := records.DailyRecords()
	if len(days) == 0 {
		fmt.Println("No daily records yet.")
		return nil
	}

	for _, day := range days {
		fmt.Printf("  %s  %d model(s)\n", day.Date, len(day.Entries))
	}
	return nil
}

func runDailyShow(cmd *cobra.Command, args []string) error {
	date := args[0]

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	day, ok := records.DailyRecordForDate(date)
	if !ok {
		fmt.Printf("No record for %s.\n", date)
		return nil
	}

	resolved := records.RecordsForDate(date)
	byID := make(map[int64]bool, len(resolved))
	for _, r := range resolved {
		byID[r.ID] = true
	}

	fmt.Printf("%s: %d model(s)\n", date, len(day.Entries))
	for _, entry := range day.Entries {
		mark := "✓"
		if !byID[entry.ID] {
			mark = "?" // no longer in the cache
		}
		fmt.Printf("  %s %d  %s\n", mark, entry.ID, entry.Title)
	}
	return nil
}

func runDailyMonth(cmd *cobra.Command, args []string) error {
	year, month, err := parseYearMonth(args[0])
	if err != nil {
		return err
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	days := records.DailyRecordsForMonth(year, month)
	if len(days) == 0 {
		fmt.Printf("No records in %04d-%02d.\n", year, month)
		return nil
	}

	total := 0
	for _, day := range days {
		fmt.Printf("  %s  %d model(s)\n", day.Date, len(day.Entries))
		total += len(day.Entries)
	}
	fmt.Printf("\n%d day(s), %d model(s) total.\n", len(days), total)
	return nil
}

// Calendar cell shades, darkest for the busiest days.
var intensityStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#0E4429")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#006D32")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#26A641")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353")).Bold(true),
}

var todayStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#F59E0B")).
	Bold(true).
	Underline(true)

var outsideMonthStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#4B4B4B")).
	Faint(true)

func runDailyCalendar(cmd *cobra.Command, args []string) error {
	year, month := calendar.CurrentYearMonth()
	year, month = calendar.RelativeMonth(year, month, calendarOffset)
	if !calendar.ValidYearMonth(year, month) {
		return fmt.Errorf("month out of range")
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	cfg := calendar.DefaultConfig()
	info := calendar.GetMonthInfo(year, month)
	grid := calendar.Grid(year, month, records.DailyRecordsForMonth(year, month), cfg)

	fmt.Printf("%s %d\n\n", info.MonthName, info.Year)

	header := calendar.WeekdayNames(cfg.FirstDayOfWeek)
	for _, name := range header {
		fmt.Printf(" %3s", name[:2])
	}
	fmt.Println()

	for row := 0; row < 6; row++ {
		for col := 0; col < 7; col++ {
			cell := grid[row*7+col]
			label := fmt.Sprintf("%3d", cell.Day)

			var styled string
			switch {
			case cell.IsToday:
				styled = todayStyle.Render(label)
			case !cell.IsCurrentMonth:
				styled = outsideMonthStyle.Render(label)
			default:
				level := calendar.IntensityLevel(cell.TotalRecords)
				styled = intensityStyles[level].Render(label)
			}
			fmt.Printf(" %s", styled)
		}
		fmt.Println()
	}

	fmt.Println()
	for _, cell := range grid {
		if cell.IsCurrentMonth && cell.HasRecord {
			fmt.Printf("  %s  %s\n", cell.Date, strings.Join(cell.RecordTitles, ", "))
		}
	}
	return nil
}

func runDailyClear(cmd *cobra.Command, args []string) error {
	date := args[0]

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	if !records.ClearDate(date) {
		fmt.Printf("No record for %s.\n", date)
		return nil
	}
	fmt.Printf("Cleared %s.\n", date)
	return nil
}

func runDailyRemove(cmd *cobra.Command, args []string) error {
	date := args[0]
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid model id %q", args[1])
	}

	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	if !records.RemoveRecordFromDate(date, id) {
		fmt.Printf("Model %d is not recorded on %s.\n", id, date)
		return nil
	}
	fmt.Printf("Removed model %d from %s.\n", id, date)
	return nil
}

func runDailyRecord(cmd *cobra.Command, args []string) error {
	_, slots, records, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	cached, ok := records.Load()
	if !ok || len(cached) == 0 {
		fmt.Println("No models cached, nothing to record.")
		return nil
	}

	date := recordDate
	if date == "" {
		if err := records.RecordNewToday(cached); err != nil {
			return err
		}
		date = time.Now().Format("2006-01-02")
	} else {
		if err := records.RecordForDate(cached, date); err != nil {
			return err
		}
	}

	fmt.Printf("Recorded %d model(s) into %s.\n", len(cached), date)
	return nil
}

func parseYearMonth(arg string) (int, int, error) {
	t, err := time.Parse("2006-01", arg)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", arg)
	}
	return t.Year(), int(t.Month()), nil
}
