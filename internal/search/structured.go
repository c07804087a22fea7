package search

import (
	"strings"

	"github.com/banned104/lorakeep/internal/models"
)

// Criteria is a structured, multi-field query. Every provided field
// must match (logical AND across fields); the list-valued fields match
// if any criterion entry is a substring of any record-side entry (OR
// within the field). All matching is case-insensitive substring.
type Criteria struct {
	Name            string
	Description     string
	Note            string
	CreatorUsername string
	Tags            []string
	TrainedWords    []string

	// Prompt and NegativePrompt are satisfied jointly: there must be a
	// single image whose metadata meets both of whichever were given.
	// Two different images cannot be combined to match a record.
	Prompt         string
	NegativePrompt string
}

// Empty reports whether no criterion was provided.
func (c Criteria) Empty() bool {
	return c.Name == "" && c.Description == "" && c.Note == "" &&
		c.CreatorUsername == "" && len(c.Tags) == 0 && len(c.TrainedWords) == 0 &&
		c.Prompt == "" && c.NegativePrompt == ""
}

// FilterStructured returns the records satisfying every provided
// criterion. The filter is stable over the input order.
func FilterStructured(records []models.Record, criteria Criteria) []models.Record {
	var out []models.Record
	for _, r := range records {
		if matchesCriteria(&r, criteria) {
			out = append(out, r)
		}
	}
	return out
}

func matchesCriteria(r *models.Record, c Criteria) bool {
	if c.Name != "" && !containsFold(r.Name, strings.ToLower(c.Name)) {
		return false
	}
	if c.Description != "" && !containsFold(r.Description, strings.ToLower(c.Description)) {
		return false
	}
	if c.Note != "" && !containsFold(r.Note, strings.ToLower(c.Note)) {
		return false
	}
	if c.CreatorUsername != "" && !containsFold(r.Creator.Username, strings.ToLower(c.CreatorUsername)) {
		return false
	}
	if len(c.Tags) > 0 && !anyCrossMatch(c.Tags, r.Tags) {
		return false
	}
	if len(c.TrainedWords) > 0 && !anyCrossMatch(c.TrainedWords, r.TrainedWords()) {
		return false
	}
	if c.Prompt != "" || c.NegativePrompt != "" {
		if !anyImageMatches(r, c.Prompt, c.NegativePrompt) {
			return false
		}
	}
	return true
}

// anyCrossMatch reports whether any wanted entry is a substring of any
// record-side entry.
func anyCrossMatch(wanted, have []string) bool {
	for _, w := range wanted {
		lw := strings.ToLower(w)
		if lw == "" {
			continue
		}
		for _, h := range have {
			if containsFold(h, lw) {
				return true
			}
		}
	}
	return false
}

// anyImageMatches looks for one image across all versions whose
// metadata satisfies both given prompt sub-conditions simultaneously.
func anyImageMatches(r *models.Record, prompt, negative string) bool {
	lp := strings.ToLower(prompt)
	ln := strings.ToLower(negative)

	for _, v := range r.Versions {
		for _, img := range v.Images {
			if img.Meta == nil {
				continue
			}
			if prompt != "" && !containsFold(img.Meta.Prompt, lp) {
				continue
			}
			if negative != "" && !containsFold(img.Meta.NegativePrompt, ln) {
				continue
			}
			return true
		}
	}
	return false
}
