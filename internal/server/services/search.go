package services

import (
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/obslog/internal/server/models"
)

// ObservationFilters are AND-combined list predicates. An empty value
// imposes no constraint.
type ObservationFilters struct {
	Q          string
	Status     string
	Confidence string
	ProjectID  string
	Tag        string
	DateFrom   string
	DateTo     string
	SortBy     string
	SortOrder  string
}

// PageMeta describes the slice of a filtered list returned to the caller.
type PageMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// parseFilterTime accepts the timestamp shapes filter values arrive in.
// A value that parses as neither form yields ok=false and the bound is
// ignored, matching lenient date handling on the query string.
func parseFilterTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func inDateRange(value time.Time, dateFrom, dateTo string) bool {
	if from, ok := parseFilterTime(dateFrom); ok && value.Before(from) {
		return false
	}
	if to, ok := parseFilterTime(dateTo); ok && value.After(to) {
		return false
	}
	return true
}

// FilterObservations applies the filters and sorts the result. The text
// query matches case-insensitively against title, observation,
// interpretation and nextAction joined with newlines. Tag membership is
// exact and case-sensitive. Date bounds are inclusive and compare
// updatedAt. Default sort is updatedAt descending; ties keep their
// relative order.
func FilterObservations(items []models.Observation, f ObservationFilters) []models.Observation {
	q := strings.ToLower(strings.TrimSpace(f.Q))
	sortBy := f.SortBy
	if sortBy != "createdAt" {
		sortBy = "updatedAt"
	}
	sortOrder := f.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	filtered := []models.Observation{}
	for _, item := range items {
		if f.Status != "" && string(item.Status) != f.Status {
			continue
		}
		if f.Confidence != "" && string(item.Confidence) != f.Confidence {
			continue
		}
		if f.ProjectID != "" && (item.ProjectID == nil || *item.ProjectID != f.ProjectID) {
			continue
		}
		if f.Tag != "" && !containsString(item.Tags, f.Tag) {
			continue
		}
		if !inDateRange(item.UpdatedAt, f.DateFrom, f.DateTo) {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(strings.Join([]string{
				item.Title, item.Observation, item.Interpretation, item.NextAction,
			}, "\n"))
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		left, right := filtered[i].UpdatedAt, filtered[j].UpdatedAt
		if sortBy == "createdAt" {
			left, right = filtered[i].CreatedAt, filtered[j].CreatedAt
		}
		if sortOrder == "asc" {
			return left.Before(right)
		}
		return right.Before(left)
	})

	return filtered
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// Paginate slices the filtered list. perPage is clamped to [1,50] with a
// default of 20; page is clamped to [1, totalPages].
func Paginate(items []models.Observation, page, perPage int) ([]models.Observation, PageMeta) {
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 50 {
		perPage = 50
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return items[start:end], PageMeta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
