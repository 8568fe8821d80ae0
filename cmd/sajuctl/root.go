package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamja-farmer/saju-frame/internal/content"
	"github.com/gamja-farmer/saju-frame/internal/handlers"
	"github.com/gamja-farmer/saju-frame/internal/i18n"
	"github.com/gamja-farmer/saju-frame/internal/interpretation"
	"github.com/gamja-farmer/saju-frame/internal/saju"
	"github.com/gamja-farmer/saju-frame/internal/seo"
	"github.com/gamja-farmer/saju-frame/internal/services"
)

// app holds the pipeline shared by every subcommand. It is built lazily so
// that --help does not load the stores.
type app struct {
	store   *interpretation.Store
	library *content.Library
	results services.ResultService
}

func loadApp() (*app, error) {
	store, err := interpretation.Default()
	if err != nil {
		return nil, fmt.Errorf("load interpretation store: %w", err)
	}
	library, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	results, err := services.NewResultService(services.ResultServiceDeps{Composer: interpretation.NewComposer(store)})
	if err != nil {
		return nil, err
	}
	return &app{store: store, library: library, results: results}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sajuctl",
		Short:         "Inspect charts, results and sitemaps without running the server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newChartCmd(), newResultCmd(), newTypesCmd(), newSitemapCmd(), newCheckCmd())
	return root
}

func newChartCmd() *cobra.Command {
	var (
		date     string
		hour     int
		calendar string
		locale   string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute the pillars, type and result path of a birth date",
		Example: "  sajuctl chart --date 1990-01-15\n" +
			"  sajuctl chart --date 1990-01-15 --hour 9 --calendar lunar --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := parseDate(date)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("hour") {
				h := hour
				in.Hour = &h
			}
			l, ok := i18n.ParseLocale(locale)
			if !ok {
				return fmt.Errorf("unsupported locale %q", locale)
			}
			charts, err := services.NewChartService(services.ChartServiceDeps{Calendar: calendar})
			if err != nil {
				return err
			}
			chart, err := charts.Compute(cmd.Context(), in.Normalized())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					services.Chart
					ResultPath string `json:"resultPath"`
				}{chart, chart.ResultPath(l)})
			}
			return printChart(cmd.OutOrStdout(), chart, l)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "solar birth date as YYYY-MM-DD")
	cmd.Flags().IntVar(&hour, "hour", 0, "birth hour 0-23; omit when unknown")
	cmd.Flags().StringVar(&calendar, "calendar", saju.CalendarIdentity, "calendar used before pillar calculation (identity or lunar)")
	cmd.Flags().StringVar(&locale, "locale", string(i18n.DefaultLocale), "locale of the printed result path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the chart as JSON")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func newResultCmd() *cobra.Command {
	var (
		locale  string
		typ     string
		variant int
		area    string
	)
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Print the composed result of a type and variant as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			route, err := a.results.ParseRoute(locale, typ, strconv.Itoa(variant), area)
			if err != nil {
				return err
			}
			if route.Area != "" {
				res, err := a.results.Area(cmd.Context(), route)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			}
			res, err := a.results.Result(cmd.Context(), route)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&locale, "locale", string(i18n.DefaultLocale), "result locale")
	cmd.Flags().StringVar(&typ, "type", "", "type slug, e.g. shui-huo-zhi-ren")
	cmd.Flags().IntVar(&variant, "variant", 0, "variant index")
	cmd.Flags().StringVar(&area, "area", "", "optional area: love, career, wealth or health")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newTypesCmd() *cobra.Command {
	var locale string
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the chart types with their labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, ok := i18n.ParseLocale(locale)
			if !ok {
				return fmt.Errorf("unsupported locale %q", locale)
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tCODE\tLABEL")
			for _, t := range a.results.Types(cmd.Context(), l) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Type, t.Metadata.Code, t.Metadata.Label)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&locale, "locale", string(i18n.DefaultLocale), "label locale")
	return cmd
}

func newSitemapCmd() *cobra.Command {
	var (
		baseURL string
		noBlog  bool
		lastMod string
	)
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write the sitemap XML the server would serve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modified := time.Now().UTC()
			if lastMod != "" {
				t, err := time.Parse(time.DateOnly, lastMod)
				if err != nil {
					return fmt.Errorf("invalid --lastmod: %w", err)
				}
				modified = t
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			discovery := handlers.NewDiscoveryHandlers(handlers.SiteConfig{
				BaseURL:       baseURL,
				DefaultLocale: i18n.DefaultLocale,
				Blog:          !noBlog,
			}, a.library, modified)
			return seo.WriteSitemap(cmd.OutOrStdout(), discovery.Entries())
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "https://example.com", "absolute site origin")
	cmd.Flags().BoolVar(&noBlog, "no-blog", false, "omit blog URLs")
	cmd.Flags().StringVar(&lastMod, "lastmod", "", "lastmod date as YYYY-MM-DD; defaults to today")
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every embedded store and report per-locale counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			report := services.NewSystemService(services.SystemServiceDeps{
				Store:    a.store,
				Content:  a.library,
				Build:    services.BuildInfo{Version: "cli"},
				Calendar: saju.CalendarIdentity,
			}).Readiness(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LOCALE\tOVERVIEW\tMETADATA\tSTEPS\tSTRUCTURED\tGLOSSARY\tPOSTS")
			for _, l := range i18n.Locales() {
				s := report.Locales[l]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n", l, s.Overview, s.Metadata, s.Steps, s.StructuredAreas, s.Glossary, s.Posts)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if report.Status != "ok" {
				return fmt.Errorf("store status %s", report.Status)
			}
			return nil
		},
	}
}

// parseDate splits YYYY-MM-DD without calendar validation; range checks are
// left to BirthInput.Validate so the CLI reports the same fields as the site.
func parseDate(value string) (saju.BirthInput, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return saju.BirthInput{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", value)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return saju.BirthInput{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", value)
		}
		nums[i] = n
	}
	return saju.BirthInput{Year: nums[0], Month: nums[1], Day: nums[2]}, nil
}

func printChart(w io.Writer, chart services.Chart, l i18n.Locale) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "calendar\t%s\t%d-%02d-%02d\n", chart.Calendar, chart.Lunar.Year, chart.Lunar.Month, chart.Lunar.Day)
	fmt.Fprintf(tw, "year\t%s %s\n", chart.Pillar.Year.Stem, chart.Pillar.Year.Branch)
	fmt.Fprintf(tw, "month\t%s %s\n", chart.Pillar.Month.Stem, chart.Pillar.Month.Branch)
	fmt.Fprintf(tw, "day\t%s %s\n", chart.Pillar.Day.Stem, chart.Pillar.Day.Branch)
	if chart.Pillar.Hour != nil {
		fmt.Fprintf(tw, "hour\t%s %s\n", chart.Pillar.Hour.Stem, chart.Pillar.Hour.Branch)
	}
	for _, share := range chart.Distribution {
		fmt.Fprintf(tw, "%s\t%d%%\n", share.Element, share.Percent)
	}
	fmt.Fprintf(tw, "type\t%s\n", chart.Type)
	fmt.Fprintf(tw, "seed\t%d\n", chart.Seed)
	fmt.Fprintf(tw, "variant\t%d\n", chart.Variant)
	fmt.Fprintf(tw, "path\t%s\n", chart.ResultPath(l))
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
