package a2a

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BerylCAtieno/listing-expert-agent/internal/collector"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
)

type field int

const (
	fieldNone field = iota
	fieldName
	fieldDesc
	fieldReview
	fieldABA
	fieldCompetitor
)

var fieldKeys = map[string]field{
	"product":           fieldName,
	"productname":       fieldName,
	"name":              fieldName,
	"品名":                fieldName,
	"description":       fieldDesc,
	"desc":              fieldDesc,
	"productdesc":       fieldDesc,
	"描述":                fieldDesc,
	"reviews":           fieldReview,
	"review":            fieldReview,
	"reviewfilecontent": fieldReview,
	"voc":               fieldReview,
	"aba":               fieldABA,
	"abafilecontent":    fieldABA,
	"keywords":          fieldABA,
	"competitor":        fieldCompetitor,
}

var htmlCleaner = strings.NewReplacer("<p>", "", "</p>", "\n", "<br>", "\n", "<br/>", "\n", "<br />", "\n")

// extractForm builds a form from a message. A data part carrying a
// ListingInputData wins; otherwise text parts are read as "key: value" lines.
// When neither yields a form, data parts holding conversation history are
// searched, newest entry first.
func extractForm(msg A2AMessage) (*collector.Form, bool) {
	var texts []string
	var history []any
	for _, part := range msg.Parts {
		switch part.Kind {
		case PartData:
			if form, ok := formFromData(part.Data); ok {
				return form, true
			}
			history = append(history, part.Data)
		case PartText:
			if t := strings.TrimSpace(part.Text); t != "" {
				texts = append(texts, t)
			}
		}
	}
	if len(texts) > 0 {
		if form, ok := formFromText(strings.Join(texts, "\n")); ok {
			return form, true
		}
	}
	for _, data := range history {
		if form, ok := formFromHistory(data); ok {
			return form, true
		}
	}
	return nil, false
}

// formFromHistory reads a data part holding earlier message parts and parses
// the most recent text entry that describes a product.
func formFromHistory(data any) (*collector.Form, bool) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var entries []MessagePart
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry.Kind != PartText || strings.TrimSpace(entry.Text) == "" {
			continue
		}
		if form, ok := formFromText(entry.Text); ok {
			return form, true
		}
	}
	return nil, false
}

func formFromData(data any) (*collector.Form, bool) {
	if data == nil {
		return nil, false
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}

	var input models.ListingInputData
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, false
	}
	if input.ProductName == "" && input.ProductDesc == "" && input.ReviewFileContent == "" {
		return nil, false
	}

	return &collector.Form{
		ProductName: input.ProductName,
		ProductDesc: input.ProductDesc,
		Competitors: input.Competitors,
		ABA:         collector.Source{Text: input.ABAFileContent},
		Review:      collector.Source{Text: input.ReviewFileContent},
	}, true
}

// formFromText parses lines such as "product: Ergo Chair". Lines without a
// recognised key continue the previous field, so reviews may span lines.
// The product name and description are taken from their first occurrence
// only: a later "Name: ..." inside a review dump is review text. Repeated
// review or ABA keys add to what was already collected.
func formFromText(text string) (*collector.Form, bool) {
	var (
		name, desc, review, aba strings.Builder
		competitors             []models.CompetitorListing
		current                 *strings.Builder
		seen                    = make(map[field]bool)
	)

	text = htmlCleaner.Replace(text)
	for _, line := range strings.Split(text, "\n") {
		key, value := splitKey(line)
		f, slot := fieldKeys[key], 0
		if key != "" && f == fieldNone {
			f, slot = competitorSlot(key)
		}
		if (f == fieldName || f == fieldDesc) && seen[f] {
			f = fieldNone
		}

		switch f {
		case fieldName:
			current = &name
		case fieldDesc:
			current = &desc
		case fieldReview:
			current = &review
		case fieldABA:
			current = &aba
		case fieldCompetitor:
			if slot == 0 {
				slot = len(competitors) + 1
			}
			for len(competitors) < slot {
				competitors = append(competitors, models.CompetitorListing{})
			}
			setCompetitor(&competitors[slot-1], value)
			current = nil
			seen[f] = true
			continue
		default:
			if current != nil {
				appendLine(current, strings.TrimSpace(line))
			}
			continue
		}

		seen[f] = true
		appendLine(current, value)
	}

	if len(seen) == 0 {
		return nil, false
	}
	return &collector.Form{
		ProductName: name.String(),
		ProductDesc: desc.String(),
		Competitors: competitors,
		ABA:         collector.Source{Text: aba.String()},
		Review:      collector.Source{Text: review.String()},
	}, true
}

var keyNormalizer = strings.NewReplacer(" ", "", "_", "", "-", "")

func splitKey(line string) (key, value string) {
	idx := strings.IndexAny(line, ":：")
	if idx <= 0 {
		return "", ""
	}
	key = keyNormalizer.Replace(strings.ToLower(strings.TrimSpace(line[:idx])))
	_, size := utf8.DecodeRuneInString(line[idx:])
	return key, strings.TrimSpace(line[idx+size:])
}

// competitorSlot recognises "competitor1".."competitor3".
func competitorSlot(key string) (field, int) {
	rest, ok := strings.CutPrefix(key, "competitor")
	if !ok {
		return fieldNone, 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > collector.MaxCompetitors {
		return fieldNone, 0
	}
	return fieldCompetitor, n
}

func setCompetitor(c *models.CompetitorListing, value string) {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		c.URL = value
		return
	}
	if c.Bullets != "" {
		c.Bullets += "\n"
	}
	c.Bullets += value
}

func appendLine(b *strings.Builder, line string) {
	if line == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(line)
}
