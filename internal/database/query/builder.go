// Swiperec - Hybrid Recommendation Engine for Swipe Marketplaces
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swiperec

// Package query provides SQL query building utilities for the database package.
package query

import "strings"

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause("active = ?", true)
//	wb.AddIn("product_guid", ids)
//	whereClause, args := wb.Build()
//	// WHERE active = ? AND product_guid IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []any
	empty   bool
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddIn adds a "column IN (...)" clause. An empty value list matches no rows.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		wb.empty = true
		wb.clauses = append(wb.clauses, "FALSE")
		return wb
	}
	wb.clauses = append(wb.clauses, column+" IN ("+Placeholders(len(values))+")")
	for _, v := range values {
		wb.args = append(wb.args, v)
	}
	return wb
}

// Build returns the WHERE clause (without the WHERE keyword) and its arguments.
// An empty builder returns "TRUE".
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "TRUE", nil
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause prefixed with "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	clause, args := wb.Build()
	return "WHERE " + clause, args
}

// MatchesNothing reports whether an empty IN list made the clause unsatisfiable.
func (wb *WhereBuilder) MatchesNothing() bool {
	return wb.empty
}

// Placeholders returns n comma-separated "?" placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
