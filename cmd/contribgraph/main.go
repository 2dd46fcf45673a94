// Command contribgraph fetches a GitHub user's trailing-year contribution
// calendar through the same source chain the HTTP API uses and renders it
// in the terminal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	service "github.com/bishnt/portfolio/internal/app"
	"github.com/bishnt/portfolio/internal/config"
	"github.com/bishnt/portfolio/internal/domain/calendar"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		user    = flag.String("user", "", "GitHub username (defaults to the configured default)")
		token   = flag.String("token", "", "GitHub token for the authenticated GraphQL source")
		asJSON  = flag.Bool("json", false, "print the raw calendar as JSON instead of a grid")
		timeout = flag.Duration("timeout", 0, "per-source fetch timeout (defaults to the configured value)")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		displayError(fmt.Sprintf("configuration error: %v", err))
		os.Exit(1)
	}

	if *token == "" {
		*token = cfg.GitHubToken
	}
	if *timeout <= 0 {
		*timeout = time.Duration(cfg.FetchTimeoutMS) * time.Millisecond
	}

	svc := service.New(
		service.WithToken(*token),
		service.WithDefaultUsername(cfg.DefaultUsername),
		service.WithFetchTimeout(*timeout),
	)

	username := strings.TrimSpace(*user)
	if username == "" {
		username = cfg.DefaultUsername
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Fetching contributions for %s...", username)
	s.Start()

	res, err := svc.Contributions(ctx, username)
	s.Stop()

	if err != nil {
		displayError(fmt.Sprintf("failed to fetch contributions: %v", err))
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			displayError(fmt.Sprintf("failed to encode output: %v", err))
			os.Exit(1)
		}
		return
	}

	render(username, res)
}

// render prints the calendar as a 7-row grid, oldest week on the left,
// followed by a summary table.
func render(username string, res *calendar.Result) {
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Println()
	_, _ = cyan.Printf("  Contributions for @%s (last year)\n", username)
	fmt.Println(strings.Repeat("-", len(res.Weeks)*2+6))

	labels := []string{"   ", "Mon", "   ", "Wed", "   ", "Fri", "   "}
	for row := 0; row < calendar.DaysPerWeek; row++ {
		fmt.Printf("  %s ", labels[row])
		for _, week := range res.Weeks {
			fmt.Print(cell(week.Days[row].Level), " ")
		}
		fmt.Println()
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Total Contributions", fmt.Sprintf("%d", res.Total)})
	table.Append([]string{"Source", res.Source})
	table.Append([]string{"Current Streak", fmt.Sprintf("%d days", calendar.Streak(res.Weeks, time.Now()))})
	if date, count := busiestDay(res.Weeks); count > 0 {
		table.Append([]string{"Busiest Day", fmt.Sprintf("%s (%d)", date, count)})
	}

	table.Render()
	fmt.Println()
}

// cell maps a contribution level to a colored glyph.
func cell(level int) string {
	switch level {
	case 0:
		return color.New(color.FgHiBlack).Sprint("·")
	case 1:
		return color.New(color.FgGreen).Sprint("▪")
	case 2:
		return color.New(color.FgGreen).Sprint("■")
	case 3:
		return color.New(color.FgHiGreen).Sprint("■")
	default:
		return color.New(color.FgHiGreen, color.Bold).Sprint("█")
	}
}

func busiestDay(weeks []calendar.Week) (string, int) {
	var date string
	var best int
	for _, w := range weeks {
		for _, d := range w.Days {
			if d.Count > best {
				best = d.Count
				date = d.Date
			}
		}
	}
	return date, best
}

func displayError(message string) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(os.Stderr, "✗ %s\n", message)
}
