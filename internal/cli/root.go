package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ermoeini/google-serp-filtered-external-links/internal/build"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/config"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/crawler"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/fetcher"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/identity"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/metadata"
	"github.com/ermoeini/google-serp-filtered-external-links/internal/serp"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/retry"
	"github.com/ermoeini/google-serp-filtered-external-links/pkg/timeutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	query       string
	numResults  int
	locale      string
	excludeList []string
	concurrency int
	maxAttempts int
	backoffBase float64
	timeout     time.Duration
	userAgent   string
	verbose     bool
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serplinks",
	Short: "Extract filtered external links from search result pages.",
	Long: `serplinks scrapes the result pages of a search query and extracts, for
each result, the hyperlinks that point to another entry of the same result
set. Links back into a page's own domain and links to domains outside the
result set are filtered out, as are results matching the exclude list.

Pages are fetched concurrently with a bounded number of in-flight requests
and a retrying fetch primitive with exponential backoff.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
			return nil
		}

		cfg, err := initConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cmd, cfg)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVarP(&query, "query", "q", "", "search query (required unless --config-file is given)")
	rootCmd.PersistentFlags().IntVar(&numResults, "num-results", 10, "number of search results to retrieve (2-100 recommended)")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "search region code used verbatim (e.g., 'us', 'uk', 'fr')")
	rootCmd.PersistentFlags().StringArrayVar(&excludeList, "exclude", []string{}, "substring excluding matching result URLs (can be repeated)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "maximum simultaneous in-flight fetches (default 5)")
	rootCmd.PersistentFlags().IntVar(&maxAttempts, "max-attempts", 0, "total fetch attempts per URL (default 3)")
	rootCmd.PersistentFlags().Float64Var(&backoffBase, "backoff-base", 0, "exponential backoff base between attempts (default 2)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for a single fetch request")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "fixed User-Agent header (default: picked once from a built-in pool)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log fetch and error events to stderr")
	rootCmd.PersistentFlags().BoolVar(&showVersion, "version", false, "print version and exit")
}

// initConfig builds the effective configuration: config file when given,
// otherwise defaults overridden by CLI flags.
func initConfig() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	if query == "" {
		return config.Config{}, fmt.Errorf("%w: --query is required", config.ErrInvalidConfig)
	}

	configBuilder := config.WithDefault(query)

	if numResults > 0 {
		configBuilder = configBuilder.WithNumResults(numResults)
	}
	if locale != "" {
		configBuilder = configBuilder.WithLocale(locale)
	}
	if len(excludeList) > 0 {
		configBuilder = configBuilder.WithExcludeList(excludeList)
	}
	if concurrency > 0 {
		configBuilder = configBuilder.WithConcurrency(concurrency)
	}
	if maxAttempts > 0 {
		configBuilder = configBuilder.WithMaxAttempts(maxAttempts)
	}
	if backoffBase > 0 {
		configBuilder = configBuilder.WithBackoffBase(backoffBase)
	}
	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}
	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	return configBuilder.Build()
}

// run executes the two crawl phases and renders the result table.
func run(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	identity.Override(cfg.UserAgent())

	var sink interface {
		metadata.MetadataSink
		metadata.CrawlFinalizer
	} = &metadata.NoopSink{}
	if verbose {
		recorder := metadata.NewRecorder(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))
		sink = &recorder
	}

	retryParam := retryParamFromConfig(cfg)

	httpClient := &http.Client{Timeout: cfg.Timeout()}
	htmlFetcher := fetcher.NewHtmlFetcherWithClient(sink, httpClient)

	scraper := serp.NewResultScraperWithRetryParam(sink, &htmlFetcher, retryParam)
	scrapeParam := serp.NewScrapeParam(cfg.Query(), cfg.NumResults(), cfg.Locale(), cfg.ExcludeList())
	candidates, err := scraper.Scrape(ctx, scrapeParam)
	if err != nil {
		return fmt.Errorf("failed to fetch search results: %w", err)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no search results for query %q", cfg.Query())
	}

	linkCrawler := crawler.NewConcurrentCrawlerWithRetryParam(sink, sink, &htmlFetcher, retryParam)
	result, err := linkCrawler.Crawl(ctx, candidates, cfg.Concurrency())
	if err != nil {
		return fmt.Errorf("crawl interrupted: %w", err)
	}

	renderResult(cmd, result)
	return nil
}

func retryParamFromConfig(cfg config.Config) retry.Param {
	return retry.NewParam(
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempts(),
		timeutil.NewBackoffParam(
			cfg.BackoffUnit(),
			cfg.BackoffBase(),
			cfg.BackoffMaxDuration(),
		),
	)
}

// renderResult prints one row per external link (or a "None" placeholder),
// keeping the candidate's original position. Repeated source URLs after the
// first row are marked with a trailing '#'.
func renderResult(cmd *cobra.Command, result crawler.CrawlResult) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POSITION\tURL\tEXTERNAL LINK")

	for i, record := range result.Records {
		position := i + 1
		if len(record.ExternalLinks) == 0 {
			fmt.Fprintf(w, "%d\t%s\t%s\n", position, record.SourceURL, "None")
			continue
		}
		for j, link := range record.ExternalLinks {
			source := record.SourceURL
			if j > 0 {
				source += "#"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", position, source, link)
		}
	}
	w.Flush()

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d result pages, %d external links\n", len(result.Records), result.TotalLinks())
	fmt.Fprintf(cmd.OutOrStdout(), "result fingerprint: %s\n", result.Fingerprint())
}

// ResetFlags restores flag state between test runs.
func ResetFlags() {
	cfgFile = ""
	query = ""
	numResults = 10
	locale = ""
	excludeList = []string{}
	concurrency = 0
	maxAttempts = 0
	backoffBase = 0
	timeout = 0
	userAgent = ""
	verbose = false
	showVersion = false
}
