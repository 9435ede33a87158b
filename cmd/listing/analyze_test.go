package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBuildForm(t *testing.T) {
	opts := analyzeOptions{
		name:   "Ergo Chair",
		desc:   "@" + writeTemp(t, "desc.txt", "adjustable lumbar support"),
		review: writeTemp(t, "reviews.txt", "seat too narrow"),
		aba:    writeTemp(t, "aba.csv", "ergonomic chair,120"),
		competitors: []string{
			"mesh back",
			"https://example.com/rival",
		},
	}

	form, err := buildForm(opts)
	require.NoError(t, err)
	assert.Equal(t, "adjustable lumbar support", form.ProductDesc)
	assert.Equal(t, "seat too narrow", form.Review.Text)
	assert.Equal(t, "ergonomic chair,120", form.ABA.Text)
	require.Len(t, form.Competitors, 2)
	assert.Equal(t, "mesh back", form.Competitors[0].Bullets)
	assert.Equal(t, "https://example.com/rival", form.Competitors[1].URL)
}

func TestBuildFormErrors(t *testing.T) {
	review := writeTemp(t, "reviews.txt", "ok")

	_, err := buildForm(analyzeOptions{name: "x", desc: "y", review: filepath.Join(t.TempDir(), "nope.txt")})
	assert.Error(t, err)

	_, err = buildForm(analyzeOptions{name: "x", desc: "y", review: review, competitors: []string{"a", "b", "c", "d"}})
	assert.ErrorContains(t, err, "at most 3 competitors")

	_, err = buildForm(analyzeOptions{name: "x", desc: "y", review: review, competitors: []string{"@/does/not/exist"}})
	assert.Error(t, err)
}

func TestTextOrFile(t *testing.T) {
	got, err := textOrFile("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	got, err = textOrFile("@")
	require.NoError(t, err)
	assert.Equal(t, "@", got)
}

func sampleResult() *service.Result {
	return &service.Result{
		Input: &models.ListingInputData{ProductName: "Ergo Chair"},
		Results: &models.AnalysisResults{
			Listings: models.Listings{
				Version1: models.AmazonListing{Title: "T1", Bullets: []string{"b1"}, Description: "d1"},
				Version2: models.AmazonListing{Title: "T2", Bullets: []string{"b2", "b3"}, Description: "d2"},
			},
		},
	}
}

func TestWriteResult(t *testing.T) {
	res := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, "v2"))
	assert.Equal(t, "T2\n\nb2\nb3\n\nd2\n", buf.String())

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, "json"))
	var decoded models.AnalysisResults
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "T1", decoded.Listings.Version1.Title)

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, "markdown"))
	assert.Contains(t, buf.String(), "# Listing Analysis for: Ergo Chair")

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, "report"))
	assert.Contains(t, buf.String(), "T1")

	assert.ErrorContains(t, writeResult(&buf, res, "xml"), "unknown output format")
}

func TestDescribe(t *testing.T) {
	logger = zap.NewNop()

	err := describe(apperrors.NewProviderError("gemini", errors.New("503 from upstream")))
	assert.Equal(t, "Analysis failed, please check the API configuration or network connection. (PROVIDER_ERROR)", err.Error())

	err = describe(apperrors.NewConfigurationError("gemini backend requires an API key (set GEMINI_API_KEY)", nil))
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	plain := errors.New("open reviews.txt: no such file")
	assert.Same(t, plain, describe(plain))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("short"))
	assert.Equal(t, "****wxyz", mask("abcdefghijklmnopqrstuvwxyz"))
}
