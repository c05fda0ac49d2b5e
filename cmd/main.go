package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"geneinfo/internal/app"
	"geneinfo/internal/config"
	"geneinfo/internal/kegg"
	"geneinfo/internal/logging"
	"geneinfo/internal/lookup"
	"geneinfo/internal/render"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

var (
	configPath string
	verbose    bool
	asJSON     bool
	nucleotide bool
)

var rootCmd = &cobra.Command{
	Use:           "geneinfo",
	Short:         "Look up human gene metadata in NCBI Gene and KEGG",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.json or config.yaml (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) logging")
	lookupCmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	parseCmd.Flags().BoolVar(&asJSON, "json", false, "print the sections as JSON")
	seqCmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	seqCmd.Flags().BoolVar(&nucleotide, "nt", false, "print the nucleotide sequence instead of the amino-acid one")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(seqCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads config and the logger shared by the commands.
func setup() (*config.Config, *log.Logger, func() error, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		File:    cfg.LogFile,
		Stderr:  true,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("loaded config", "ncbi_base_url", cfg.NcbiBaseURL, "kegg_base_url", cfg.KeggBaseURL,
		"organism", cfg.Organism, "kegg_organism", cfg.KeggOrganism, "log_file", cfg.LogFile, "log_level", cfg.LogLevel)
	if cfg.NcbiApiKey != "" {
		logger.Debug("ncbi api key provided in config (not logged)")
	}
	return cfg, logger, closeLog, nil
}

var lookupCmd = &cobra.Command{
	Use:   "lookup SYMBOL",
	Short: "Resolve a gene symbol and print its NCBI and KEGG information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		symbol := lookup.NormalizeSymbol(args[0])
		res, err := app.NewService(cfg, version, logger).Lookup(ctx, symbol)
		if err != nil {
			n := lookup.Notify(symbol, err)
			logger.Error("lookup failed", "symbol", symbol, "err", err)
			return errors.New(n.Title + ": " + n.Message)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintln(out, render.Render(res, terminalWidth()))
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a KEGG flat-file entry from disk and print its sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		sections := kegg.ParseFlatFile(string(data))

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sections)
		}
		keys := make([]string, 0, len(sections))
		for k := range sections {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(out, render.Sections(sections, keys, terminalWidth()))
		return nil
	},
}

var seqCmd = &cobra.Command{
	Use:   "seq SYMBOL",
	Short: "Print the KEGG amino-acid (or nucleotide) sequence of a gene in FASTA format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		kind := kegg.AminoAcid
		if nucleotide {
			kind = kegg.Nucleotide
		}
		symbol := lookup.NormalizeSymbol(args[0])
		if symbol == "" {
			return lookup.ErrEmptyQuery
		}
		c := app.NewKeggClient(cfg, version, logger)
		rec, err := c.GetSequence(ctx, c.EntryID(symbol), kind)
		if err != nil {
			n := lookup.Notify(symbol, err)
			logger.Error("sequence fetch failed", "symbol", symbol, "kind", kind, "err", err)
			return errors.New(n.Title + ": " + n.Message)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}
		fmt.Fprintf(out, ">%s\n", rec.Header)
		for seq := rec.Sequence; len(seq) > 0; {
			n := min(60, len(seq))
			fmt.Fprintln(out, seq[:n])
			seq = seq[n:]
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "geneinfo", version)
	},
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}
