package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/banned104/lorakeep/internal/models"
)

// RecordMarkdown renders one record as a full Markdown document:
// heading, creator, description, then every version with its trained
// words, download links, and sample images. If selected is non-nil that
// version is called out first.
func RecordMarkdown(record *models.Record, selected *models.Version) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", record.Name)
	fmt.Fprintf(&b, "**Creator**: %s\n\n", record.Creator.Username)
	fmt.Fprintf(&b, "**Model ID**: %d\n\n", record.ID)

	if len(record.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags**: %s\n\n", strings.Join(record.Tags, ", "))
	}
	if record.Note != "" {
		fmt.Fprintf(&b, "**Note**: %s\n\n", record.Note)
	}

	if record.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(CleanHTML(record.Description))
		b.WriteString("\n\n")
	}

	if len(record.Versions) > 0 {
		b.WriteString("## Versions\n\n")

		if selected != nil {
			b.WriteString("### Selected version\n\n")
			writeVersion(&b, selected)
		}

		for i := range record.Versions {
			v := &record.Versions[i]
			fmt.Fprintf(&b, "#### %d. %s\n\n", i+1, v.Name)
			writeVersion(&b, v)
		}
	}

	return b.String()
}

func writeVersion(b *strings.Builder, v *models.Version) {
	fmt.Fprintf(b, "**Version**: %s\n", v.Name)
	if v.CreatedAt != "" {
		fmt.Fprintf(b, "**Created**: %s\n", v.CreatedAt)
	}
	b.WriteString("\n")

	if len(v.TrainedWords) > 0 {
		fmt.Fprintf(b, "**Trained words**: %s\n\n", strings.Join(v.TrainedWords, ", "))
	}

	if len(v.Files) > 0 {
		b.WriteString("**Files**:\n\n")
		for _, f := range v.Files {
			fmt.Fprintf(b, "- [%s](%s)\n", f.Name, f.DownloadURL)
		}
		b.WriteString("\n")
	}

	if len(v.Images) > 0 {
		b.WriteString("**Sample images**:\n\n")
		for i, img := range v.Images {
			fmt.Fprintf(b, "![sample %d](%s)\n", i+1, img.URL)
		}
		b.WriteString("\n")
	}
}

// dayMarkdown renders one day's record list.
func dayMarkdown(day models.DailyRecord, records []models.Record, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Models saved on %s\n\n", day.Date)
	fmt.Fprintf(&b, "**Saved at**: %s\n", time.UnixMilli(day.Timestamp).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Model count**: %d\n\n", len(records))
	b.WriteString("---\n\n")

	for i := range records {
		r := &records[i]
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, r.Name)
		fmt.Fprintf(&b, "- **Creator**: %s\n", r.Creator.Username)
		fmt.Fprintf(&b, "- **Model ID**: %d\n", r.ID)
		if r.Description != "" {
			fmt.Fprintf(&b, "- **Description**: %s\n", CleanHTML(r.Description))
		}
		if len(r.Tags) > 0 {
			fmt.Fprintf(&b, "- **Tags**: %s\n", strings.Join(r.Tags, ", "))
		}
		if len(r.Versions) > 0 {
			fmt.Fprintf(&b, "- **Versions**: %d\n", len(r.Versions))
			for vi := range r.Versions {
				v := &r.Versions[vi]
				fmt.Fprintf(&b, "\n### Version %d: %s\n", vi+1, v.Name)
				if len(v.TrainedWords) > 0 {
					fmt.Fprintf(&b, "**Trained words**: %s\n\n", strings.Join(v.TrainedWords, ", "))
				}
				if len(v.Files) > 0 {
					b.WriteString("**Files**:\n")
					for _, f := range v.Files {
						fmt.Fprintf(&b, "- [%s](%s)\n", f.Name, f.DownloadURL)
					}
					b.WriteString("\n")
				}
			}
		}
		b.WriteString("\n---\n\n")
	}

	fmt.Fprintf(&b, "\n*Exported %s*\n", now.Format("2006-01-02 15:04:05"))
	return b.String()
}

// creatorCount is one row of the creator leaderboard.
type creatorCount struct {
	Username string
	Count    int
}

// topCreators counts records per creator and returns the top n,
// descending by count, ties broken by first-encountered order.
func topCreators(records []models.Record, n int) []creatorCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		name := r.Creator.Username
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}

	out := make([]creatorCount, 0, len(order))
	for _, name := range order {
		out = append(out, creatorCount{Username: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return rank[out[i].Username] < rank[out[j].Username]
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// summaryMarkdown renders the cross-day summary: per-day table (newest
// first), save statistics, and a top-10 creator leaderboard.
func summaryMarkdown(days []models.DailyRecord, records []models.Record, now time.Time) string {
	var b strings.Builder

	b.WriteString("# Saved model summary\n\n")
	fmt.Fprintf(&b, "**Exported**: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Days recorded**: %d\n", len(days))
	fmt.Fprintf(&b, "**Total models**: %d\n\n", len(records))
	b.WriteString("---\n\n")

	b.WriteString("## By date\n\n")
	b.WriteString("| Date | Models | Saved at |\n")
	b.WriteString("|------|--------|----------|\n")

	sorted := make([]models.DailyRecord, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	for _, day := range sorted {
		saved := time.UnixMilli(day.Timestamp).Format("2006-01-02 15:04:05")
		fmt.Fprintf(&b, "| %s | %d | %s |\n", day.Date, len(day.Entries), saved)
	}

	if len(days) > 0 {
		maxDay, minDay := 0, len(days[0].Entries)
		for _, day := range days {
			if len(day.Entries) > maxDay {
				maxDay = len(day.Entries)
			}
			if len(day.Entries) < minDay {
				minDay = len(day.Entries)
			}
		}
		avg := float64(len(records)) / float64(len(days))

		b.WriteString("\n## Statistics\n\n")
		fmt.Fprintf(&b, "- **Average per day**: %.1f models\n", avg)
		fmt.Fprintf(&b, "- **Most in one day**: %d models\n", maxDay)
		fmt.Fprintf(&b, "- **Fewest in one day**: %d models\n", minDay)
	}

	if leaders := topCreators(records, 10); len(leaders) > 0 {
		b.WriteString("\n## Top creators\n\n")
		b.WriteString("| Creator | Models |\n")
		b.WriteString("|---------|--------|\n")
		for _, row := range leaders {
			fmt.Fprintf(&b, "| %s | %d |\n", row.Username, row.Count)
		}
	}

	b.WriteString("\n## Files\n\n")
	for _, day := range sorted {
		fmt.Fprintf(&b, "- `models_%s.md` - models saved on %s\n", day.Date, day.Date)
	}
	b.WriteString("- `summary.md` - this file\n")

	return b.String()
}

var (
	htmlBreakRe  = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlParaRe   = regexp.MustCompile(`(?i)</?p[^>]*>`)
	htmlBoldRe   = regexp.MustCompile(`(?is)<(?:strong|b)[^>]*>(.*?)</(?:strong|b)>`)
	htmlItalicRe = regexp.MustCompile(`(?is)<(?:em|i)[^>]*>(.*?)</(?:em|i)>`)
	htmlLinkRe   = regexp.MustCompile(`(?is)<a[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n`)
)

// CleanHTML converts the catalog's HTML descriptions to plain Markdown
// text: line breaks and paragraphs become newlines, bold/italic/link
// markup becomes Markdown, everything else is stripped.
func CleanHTML(html string) string {
	s := htmlBreakRe.ReplaceAllString(html, "\n")
	s = htmlParaRe.ReplaceAllString(s, "\n")
	s = htmlBoldRe.ReplaceAllString(s, "**$1**")
	s = htmlItalicRe.ReplaceAllString(s, "*$1*")
	s = htmlLinkRe.ReplaceAllString(s, "[$2]($1)")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
