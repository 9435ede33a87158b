// Package collector assembles a ListingInputData from form fields and
// uploaded files.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/scrape"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxCompetitors is the number of competitor slots on the form.
const MaxCompetitors = 3

// Source is an uploaded file or pasted text. Reader wins when both are set.
type Source struct {
	Name   string
	Reader io.Reader
	Text   string
}

// Form is the raw submission before validation.
type Form struct {
	ProductName string
	ProductDesc string
	Competitors []models.CompetitorListing
	ABA         Source
	Review      Source
}

type Collector struct {
	fetcher  scrape.Fetcher
	maxBytes int64
	validate *validator.Validate
	logger   *zap.Logger
}

// New returns a Collector. fetcher may be nil to disable competitor page
// fetching; maxBytes <= 0 disables the per-file size cap.
func New(fetcher scrape.Fetcher, maxBytes int64, logger *zap.Logger) *Collector {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Collector{
		fetcher:  fetcher,
		maxBytes: maxBytes,
		validate: v,
		logger:   logger.Named("collector"),
	}
}

// Collect reads every source, fills empty competitor slots from their URLs
// when a fetcher is configured, and validates the result. Nothing is sent to
// the provider here.
func (c *Collector) Collect(ctx context.Context, form *Form) (*models.ListingInputData, error) {
	if len(form.Competitors) > MaxCompetitors {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("at most %d competitors are allowed, got %d", MaxCompetitors, len(form.Competitors)),
			"competitors")
	}

	aba, err := c.read(form.ABA, "abaFileContent")
	if err != nil {
		return nil, err
	}
	review, err := c.read(form.Review, "reviewFileContent")
	if err != nil {
		return nil, err
	}

	competitors := make([]models.CompetitorListing, MaxCompetitors)
	for i, comp := range form.Competitors {
		competitors[i] = models.CompetitorListing{
			URL:     strings.TrimSpace(comp.URL),
			Title:   strings.TrimSpace(comp.Title),
			Bullets: strings.TrimSpace(comp.Bullets),
		}
	}

	input := &models.ListingInputData{
		ABAFileContent:    aba,
		Competitors:       competitors,
		ReviewFileContent: review,
		ProductName:       strings.TrimSpace(form.ProductName),
		ProductDesc:       strings.TrimSpace(form.ProductDesc),
	}
	if err := c.Validate(input); err != nil {
		return nil, err
	}

	if err := c.enrich(ctx, input.Competitors); err != nil {
		return nil, err
	}

	c.logger.Debug("collected input",
		zap.String("product", input.ProductName),
		zap.Int("aba_bytes", len(input.ABAFileContent)),
		zap.Int("review_bytes", len(input.ReviewFileContent)))
	return input, nil
}

// Validate checks the required fields of input and reports every missing one.
// Whitespace-only values count as missing; input itself is not modified.
func (c *Collector) Validate(input *models.ListingInputData) error {
	check := *input
	check.ProductName = strings.TrimSpace(check.ProductName)
	check.ProductDesc = strings.TrimSpace(check.ProductDesc)
	check.ReviewFileContent = strings.TrimSpace(check.ReviewFileContent)

	err := c.validate.Struct(&check)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternalError(err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return apperrors.NewValidationError("Please fill in all required fields", fields...)
}

func (c *Collector) read(src Source, field string) (string, error) {
	if src.Reader == nil {
		if err := c.checkSize(int64(len(src.Text)), field, src.Name); err != nil {
			return "", err
		}
		return src.Text, nil
	}

	r := src.Reader
	if c.maxBytes > 0 {
		r = io.LimitReader(r, c.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("failed to read %s: %v", describe(field, src.Name), err), field)
	}
	if err := c.checkSize(int64(len(data)), field, src.Name); err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Collector) checkSize(n int64, field, name string) error {
	if c.maxBytes > 0 && n > c.maxBytes {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s exceeds the %d byte limit", describe(field, name), c.maxBytes), field)
	}
	return nil
}

// enrich fetches competitor pages for slots that have a URL but no copy. A
// failed fetch leaves the slot as it was.
func (c *Collector) enrich(ctx context.Context, competitors []models.CompetitorListing) error {
	if c.fetcher == nil {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range competitors {
		comp := &competitors[i]
		if comp.URL == "" || comp.Bullets != "" {
			continue
		}
		g.Go(func() error {
			page, err := c.fetcher.Fetch(gctx, comp.URL)
			if err != nil {
				c.logger.Warn("competitor fetch failed", zap.String("url", comp.URL), zap.Error(err))
				return nil
			}
			comp.Bullets = page.Blob()
			if comp.Title == "" {
				comp.Title = page.Title
			}
			c.logger.Info("competitor fetched", zap.String("url", comp.URL), zap.Int("chars", len(comp.Bullets)))
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// ReadFile loads a local text file for CLI submissions.
func ReadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Source{Name: path, Text: string(data)}, nil
}

func describe(field, name string) string {
	if name != "" {
		return fmt.Sprintf("%s (%s)", field, name)
	}
	return field
}
