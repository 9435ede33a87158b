package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/report"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/BerylCAtieno/listing-expert-agent/internal/tui"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type analyzeOptions struct {
	name        string
	desc        string
	review      string
	aba         string
	competitors []string
	format      string
	out         string
}

var analyzeOpts analyzeOptions

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the report",
	Long: `Reads the review file (and optionally an ABA report), sends one request to
the configured model and prints the result.

Competitors are given with --competitor, up to three times. Each value is the
competitor's copy, @path to read it from a file, or a URL to fetch when a
fetcher is configured.

Example:
  listing analyze --name "Ergo Chair" --desc "adjustable lumbar support" \
    --review reviews.txt --aba aba.csv --competitor @rival.txt`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&analyzeOpts.name, "name", "", "product name (required)")
	f.StringVar(&analyzeOpts.desc, "desc", "", "product description, or @path (required)")
	f.StringVar(&analyzeOpts.review, "review", "", "review/VOC file (required)")
	f.StringVar(&analyzeOpts.aba, "aba", "", "ABA keyword report file")
	f.StringArrayVar(&analyzeOpts.competitors, "competitor", nil, "competitor copy, @path or URL (repeatable, max 3)")
	f.StringVarP(&analyzeOpts.format, "output", "o", "report", "output format: report, markdown, json, v1 or v2")
	f.StringVar(&analyzeOpts.out, "out", "", "write the output to a file instead of stdout")
	_ = analyzeCmd.MarkFlagRequired("name")
	_ = analyzeCmd.MarkFlagRequired("desc")
	_ = analyzeCmd.MarkFlagRequired("review")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	form, err := buildForm(analyzeOpts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, closeProvider, err := service.FromConfig(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeProvider() }()

	fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %q...\n", form.ProductName)
	res, err := svc.Submit(ctx, form)
	if err != nil {
		return describe(err)
	}

	w := cmd.OutOrStdout()
	if analyzeOpts.out != "" {
		f, err := os.Create(analyzeOpts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return writeResult(w, res, analyzeOpts.format)
}

func buildForm(opts analyzeOptions) (*collector.Form, error) {
	if len(opts.competitors) > collector.MaxCompetitors {
		return nil, fmt.Errorf("at most %d competitors are allowed, got %d", collector.MaxCompetitors, len(opts.competitors))
	}

	desc, err := textOrFile(opts.desc)
	if err != nil {
		return nil, err
	}

	form := &collector.Form{
		ProductName: opts.name,
		ProductDesc: desc,
	}
	if form.Review, err = collector.ReadFile(opts.review); err != nil {
		return nil, err
	}
	if opts.aba != "" {
		if form.ABA, err = collector.ReadFile(opts.aba); err != nil {
			return nil, err
		}
	}

	for _, raw := range opts.competitors {
		comp, err := tui.ParseCompetitor(raw)
		if err != nil {
			return nil, err
		}
		form.Competitors = append(form.Competitors, comp)
	}
	return form, nil
}

// textOrFile reads @path values and returns anything else unchanged.
func textOrFile(v string) (string, error) {
	if len(v) < 2 || v[0] != '@' {
		return v, nil
	}
	src, err := collector.ReadFile(v[1:])
	if err != nil {
		return "", err
	}
	return src.Text, nil
}

func writeResult(w io.Writer, res *service.Result, format string) error {
	listings := res.Results.Listings

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Results)
	case "markdown":
		_, err := io.WriteString(w, report.Markdown(res.Input.ProductName, res.Results))
		return err
	case "v1":
		_, err := fmt.Fprintln(w, report.PlainText(listings.Version1))
		return err
	case "v2":
		_, err := fmt.Fprintln(w, report.PlainText(listings.Version2))
		return err
	case "report", "":
		md := report.Markdown(res.Input.ProductName, res.Results)
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return err
		}
		out, err := r.Render(md)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// describe turns an analysis failure into the message shown to the user.
// Details go to the debug log.
func describe(err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		return err
	}
	logger.Debug("analysis failed", zap.Error(err))

	msg := apperrors.UserMessage(err)
	if appErr.Type == apperrors.ErrorTypeValidation || appErr.Type == apperrors.ErrorTypeConfiguration {
		msg = appErr.Message
	}
	return fmt.Errorf("%s (%s)", msg, appErr.Type)
}
