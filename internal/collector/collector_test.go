package collector

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]*scrape.Page
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*scrape.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)
	if p, ok := s.pages[url]; ok {
		return p, nil
	}
	return nil, errors.New("404 not found")
}

func validForm() *Form {
	return &Form{
		ProductName: " Ergo Chair ",
		ProductDesc: "adjustable lumbar support",
		Review:      Source{Name: "reviews.txt", Reader: strings.NewReader("seat too narrow\n")},
	}
}

func TestCollectPadsCompetitorsAndKeepsRawText(t *testing.T) {
	c := New(nil, 0, zap.NewNop())
	form := validForm()
	form.Competitors = []models.CompetitorListing{{Bullets: "  mesh back  "}}
	form.ABA = Source{Text: "ergonomic chair,12000\n"}

	input, err := c.Collect(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, "Ergo Chair", input.ProductName)
	assert.Equal(t, "seat too narrow\n", input.ReviewFileContent, "file text is passed on verbatim")
	assert.Equal(t, "ergonomic chair,12000\n", input.ABAFileContent)
	require.Len(t, input.Competitors, MaxCompetitors)
	assert.Equal(t, "mesh back", input.Competitors[0].Bullets)
	assert.Equal(t, models.CompetitorListing{}, input.Competitors[2])
}

func TestCollectRequiredFields(t *testing.T) {
	c := New(nil, 0, zap.NewNop())

	_, err := c.Collect(context.Background(), &Form{
		ProductName: "Ergo Chair",
		ProductDesc: "   ",
	})
	require.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation), "got %v", err)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.ElementsMatch(t, []string{"productDesc", "reviewFileContent"}, appErr.Details)

	form := validForm()
	form.Review = Source{Text: " \n\t\n"}
	_, err = c.Collect(context.Background(), form)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"reviewFileContent"}, appErr.Details)
}

func TestCollectTooManyCompetitors(t *testing.T) {
	c := New(nil, 0, zap.NewNop())
	form := validForm()
	form.Competitors = make([]models.CompetitorListing, 4)

	_, err := c.Collect(context.Background(), form)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
	assert.ErrorContains(t, err, "at most 3 competitors")
}

func TestCollectSizeCap(t *testing.T) {
	c := New(nil, 16, zap.NewNop())

	form := validForm()
	form.ABA = Source{Name: "aba.csv", Reader: strings.NewReader(strings.Repeat("x", 17))}
	_, err := c.Collect(context.Background(), form)
	require.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
	assert.ErrorContains(t, err, "aba.csv")

	form = validForm()
	form.Review = Source{Text: strings.Repeat("y", 17)}
	_, err = c.Collect(context.Background(), form)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))

	form = validForm()
	form.ABA = Source{Reader: strings.NewReader(strings.Repeat("x", 16))}
	_, err = c.Collect(context.Background(), form)
	assert.NoError(t, err)
}

func TestCollectFetchesCompetitorPages(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]*scrape.Page{
		"https://example.com/a": {Title: "Chair A", Text: "breathable mesh"},
	}}
	c := New(fetcher, 0, zap.NewNop())

	form := validForm()
	form.Competitors = []models.CompetitorListing{
		{URL: "https://example.com/a"},
		{URL: "https://example.com/missing"},
		{URL: "https://example.com/c", Bullets: "already pasted"},
	}

	input, err := c.Collect(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, "Chair A\nbreathable mesh", input.Competitors[0].Bullets)
	assert.Equal(t, "Chair A", input.Competitors[0].Title)
	assert.Empty(t, input.Competitors[1].Bullets)
	assert.Equal(t, "already pasted", input.Competitors[2].Bullets)
	assert.ElementsMatch(t, []string{"https://example.com/a", "https://example.com/missing"}, fetcher.calls)
}

func TestCollectSkipsFetchOnValidationFailure(t *testing.T) {
	fetcher := &stubFetcher{}
	c := New(fetcher, 0, zap.NewNop())

	_, err := c.Collect(context.Background(), &Form{
		Competitors: []models.CompetitorListing{{URL: "https://example.com/a"}},
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, fetcher.calls)
}

func TestReadFile(t *testing.T) {
	path := t.TempDir() + "/reviews.txt"
	require.NoError(t, os.WriteFile(path, []byte("too narrow"), 0o600))

	src, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "too narrow", src.Text)
	assert.Equal(t, path, src.Name)

	_, err = ReadFile(path + ".missing")
	assert.Error(t, err)
}
