// Package search provides predicate-based, non-mutating search over the
// cached record set: free-text multi-field search, structured AND
// search, suggestion extraction, and vocabulary flattening.
package search

import (
	"sort"
	"strings"

	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/store"
)

// Service queries the Record Store's full historical record set.
type Service struct {
	store *store.RecordStore
}

// New creates a search service over the given store.
func New(s *store.RecordStore) *Service {
	return &Service{store: s}
}

// FreeText runs a free-text search across the full stored record set.
func (s *Service) FreeText(query string) []models.Record {
	records, _ := s.store.Load()
	return FilterFreeText(records, query)
}

// Structured runs a structured search across the full stored record set.
func (s *Service) Structured(criteria Criteria) []models.Record {
	records, _ := s.store.Load()
	return FilterStructured(records, criteria)
}

// Suggestions extracts completion suggestions from the full stored
// record set.
func (s *Service) Suggestions(query string, limit int) []string {
	records, _ := s.store.Load()
	return ExtractSuggestions(records, query, limit)
}

// FilterFreeText returns the records matching a case-insensitive
// substring query. An empty or whitespace-only query returns the entire
// input set. The filter is stable: result order is input order, and a
// record is included once on its first matching field.
//
// Searched fields: name, description, note, tags, every version's
// trained words, and every image's prompt, negative prompt, and
// resource names.
func FilterFreeText(records []models.Record, query string) []models.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	var out []models.Record
	for _, r := range records {
		if matchesFreeText(&r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matchesFreeText(r *models.Record, q string) bool {
	if containsFold(r.Name, q) || containsFold(r.Description, q) || containsFold(r.Note, q) {
		return true
	}
	for _, tag := range r.Tags {
		if containsFold(tag, q) {
			return true
		}
	}
	for _, v := range r.Versions {
		for _, word := range v.TrainedWords {
			if containsFold(word, q) {
				return true
			}
		}
		for _, img := range v.Images {
			if img.Meta == nil {
				continue
			}
			if containsFold(img.Meta.Prompt, q) || containsFold(img.Meta.NegativePrompt, q) {
				return true
			}
			for _, res := range img.Meta.Resources {
				if containsFold(res.Name, q) {
					return true
				}
			}
		}
	}
	return false
}

// containsFold reports whether q (already lowercased) is a substring of
// s, ignoring case.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

// ExtractSuggestions returns strings drawn from record names, trained
// words, and tags that contain the query, in discovery order, truncated
// to limit. Queries shorter than two characters yield nothing.
func ExtractSuggestions(records []models.Record, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 || limit <= 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)

	add := func(candidate string) bool {
		if !containsFold(candidate, q) || seen[candidate] {
			return len(out) < limit
		}
		seen[candidate] = true
		out = append(out, candidate)
		return len(out) < limit
	}

	for _, r := range records {
		if !add(r.Name) {
			return out
		}
		for _, v := range r.Versions {
			for _, word := range v.TrainedWords {
				if !add(word) {
					return out
				}
			}
		}
		for _, tag := range r.Tags {
			if !add(tag) {
				return out
			}
		}
	}
	return out
}

// AllTrainedWords flattens, dedups, and sorts the trained words across
// the given record set. Unlike the search methods, which read the full
// stored history, the vocabulary functions operate only on the record
// set handed to them; that narrower scope is intentional.
func AllTrainedWords(records []models.Record) []string {
	return sortedVocabulary(records, func(r *models.Record) []string {
		return r.TrainedWords()
	})
}

// AllTags flattens, dedups, and sorts the tags across the given record
// set. Same currently-loaded scope as AllTrainedWords.
func AllTags(records []models.Record) []string {
	return sortedVocabulary(records, func(r *models.Record) []string {
		return r.Tags
	})
}

func sortedVocabulary(records []models.Record, pick func(*models.Record) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range records {
		for _, v := range pick(&records[i]) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
