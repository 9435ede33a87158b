// Package report renders AnalysisResults for people: a markdown report and
// the plain-text copy format pasted into Seller Central.
package report

import (
	"fmt"
	"strings"

	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
)

// Markdown renders the full analysis report.
func Markdown(productName string, results *models.AnalysisResults) string {
	if results == nil {
		return "No analysis results generated."
	}

	var builder strings.Builder
	if productName != "" {
		builder.WriteString(fmt.Sprintf("# Listing Analysis for: %s\n\n", productName))
	} else {
		builder.WriteString("# Listing Analysis\n\n")
	}

	kw := results.KeywordAnalysis
	builder.WriteString("## Keyword Analysis\n\n")
	if len(kw.Roots) > 0 {
		builder.WriteString(fmt.Sprintf("**Roots:** %s\n\n", strings.Join(kw.Roots, ", ")))
	}
	if len(kw.HighFreq) > 0 {
		builder.WriteString("| Word | Count |\n|---|---|\n")
		for _, hf := range kw.HighFreq {
			builder.WriteString(fmt.Sprintf("| %s | %s |\n", escapeCell(hf.Word), formatCount(hf.Count)))
		}
		builder.WriteString("\n")
	}
	writeList(&builder, "Core Keywords", kw.CoreKeywords)

	ci := results.CompetitorInsights
	builder.WriteString("## Competitor Insights\n\n")
	if ci.WritingStyles != "" {
		builder.WriteString(fmt.Sprintf("**Writing Style:** %s\n\n", ci.WritingStyles))
	}
	if ci.CoreKeywordUsage != "" {
		builder.WriteString(fmt.Sprintf("**Keyword Placement:** %s\n\n", ci.CoreKeywordUsage))
	}
	writeList(&builder, "Selling Points", ci.SellingPoints)

	builder.WriteString("## Review Insights\n\n")
	writeList(&builder, "Pain Points", results.ReviewInsights.PainPoints)
	writeList(&builder, "Competitor Defects", results.ReviewInsights.Defects)

	writeListing(&builder, "Version 1: SEO Optimized", results.Listings.Version1)
	builder.WriteString("\n---\n\n")
	writeListing(&builder, "Version 2: Conversion Focused", results.Listings.Version2)

	return builder.String()
}

// PlainText is the copy format for one listing: title, bullets one per line,
// then the description, separated by blank lines.
func PlainText(listing models.AmazonListing) string {
	return listing.Title + "\n\n" + strings.Join(listing.Bullets, "\n") + "\n\n" + listing.Description
}

func writeList(builder *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	builder.WriteString(fmt.Sprintf("**%s:**\n", heading))
	for _, item := range items {
		builder.WriteString(fmt.Sprintf("- %s\n", strings.TrimSpace(item)))
	}
	builder.WriteString("\n")
}

func writeListing(builder *strings.Builder, heading string, listing models.AmazonListing) {
	builder.WriteString(fmt.Sprintf("## %s\n\n", heading))
	builder.WriteString(fmt.Sprintf("### %s\n\n", listing.Title))
	for i, bullet := range listing.Bullets {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, strings.TrimSpace(bullet)))
	}
	if len(listing.Bullets) > 0 {
		builder.WriteString("\n")
	}
	if listing.Description != "" {
		builder.WriteString(listing.Description + "\n")
	}
}

func formatCount(n float64) string {
	if n == float64(int64(n)) {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%.2f", n)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
