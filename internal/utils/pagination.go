package utils

import (
	"fmt"
	"strings"
)

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total      int
	PerPage    int
	Current    int
	Offset     int
	TotalPages int
}

// NewPagination clamps current into [1, TotalPages]. perPage <= 0 means a
// single page holding everything.
func NewPagination(total, perPage, current int) *PaginationInfo {
	if perPage <= 0 {
		perPage = max(total, 1)
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	current = min(max(current, 1), totalPages)

	return &PaginationInfo{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: totalPages,
	}
}

// GetRange returns the range of items on the current page (1-indexed)
func (p *PaginationInfo) GetRange() (start, end int) {
	start = p.Offset + 1
	end = min(p.Offset+p.PerPage, p.Total)
	return start, end
}

func (p *PaginationInfo) HasNext() bool { return p.Current < p.TotalPages }

func (p *PaginationInfo) HasPrev() bool { return p.Current > 1 }

// Page returns the slice of items on the current page.
func Page[T any](items []T, p *PaginationInfo) []T {
	if p.Offset >= len(items) {
		return nil
	}
	return items[p.Offset:min(p.Offset+p.PerPage, len(items))]
}

// FormatNavigation returns navigation hints
func (p *PaginationInfo) FormatNavigation() string {
	if p.TotalPages <= 1 {
		return ""
	}
	var parts []string
	if p.HasPrev() {
		parts = append(parts, fmt.Sprintf("← prev: --page %d", p.Current-1))
	}
	if p.HasNext() {
		parts = append(parts, fmt.Sprintf("next: --page %d →", p.Current+1))
	}
	return strings.Join(parts, "  |  ")
}
