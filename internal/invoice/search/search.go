// Package search builds the parameterized predicates behind invoice search
// and filtering.
package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"

	orderdomain "github.com/storelane/merchant/internal/order/domain"
	"github.com/storelane/merchant/pkg/db/query"
)

// Classify splits a raw search string into candidate invoice numbers and
// textual tokens. Commas count as separators; every non-empty token lands
// in exactly one of the two results.
func Classify(raw string) (numbers []int64, terms []string) {
	raw = strings.ReplaceAll(raw, ",", " ")
	for _, token := range strings.Fields(raw) {
		if n, err := strconv.ParseInt(token, 10, 64); err == nil {
			numbers = append(numbers, n)
			continue
		}
		terms = append(terms, token)
	}
	return numbers, terms
}

// Term builds the base search predicate for a free-form term. Numeric
// tokens match the document number; textual tokens become one
// case-insensitive substring pattern over bill-to name and email. With
// both kinds present the branches combine with OR; with neither the
// predicate degenerates to match-all.
func Term(raw string) query.Predicate {
	numbers, terms := Classify(raw)
	pattern := likePattern(terms)

	switch {
	case len(numbers) > 0 && len(terms) > 0:
		return query.New(
			"lower(bill_to_name) LIKE ? OR lower(bill_to_email) LIKE ? OR invoice_number IN ?",
			pattern, pattern, numbers,
		)
	case len(numbers) > 0:
		return query.New("invoice_number IN ?", numbers)
	default:
		return query.New(
			"lower(bill_to_name) LIKE ? OR lower(bill_to_email) LIKE ?",
			pattern, pattern,
		)
	}
}

// likePattern joins tokens into one wildcard-separated substring pattern,
// so "smith co" matches "Smith Trading Co".
func likePattern(terms []string) string {
	return strings.ToLower("%" + strings.Join(terms, "% ") + "%")
}

// InDateRange restricts to invoice dates within [start, end].
func InDateRange(start, end time.Time) query.Predicate {
	return query.New("invoice_date BETWEEN ? AND ?", start, end)
}

// MatchStatus restricts to one invoice status.
func MatchStatus(statusID int64) query.Predicate {
	return query.New("status_id = ?", statusID)
}

// NotStatus excludes one invoice status.
func NotStatus(statusID int64) query.Predicate {
	return query.New("status_id != ?", statusID)
}

// MatchOrderStatus restricts to invoices with at least one order in the
// given status. The not-fulfilled status also matches invoices with no
// orders at all; both cases read the same to a fulfillment workflow.
func MatchOrderStatus(orderStatusID int64) query.Predicate {
	p := query.New(
		"invoices.id IN (SELECT DISTINCT invoice_id FROM orders WHERE status_id = ?)",
		orderStatusID,
	)
	if orderStatusID == orderdomain.StatusNotFulfilled {
		p = p.Or(query.New("invoices.id NOT IN (SELECT DISTINCT invoice_id FROM orders)"))
	}
	return p
}

// NotOrderStatus restricts to invoices whose orders are all in the given
// status: the invoice must not appear among invoices holding an order in
// any other status.
func NotOrderStatus(orderStatusID int64) query.Predicate {
	return query.New(
		"invoices.id NOT IN (SELECT DISTINCT invoice_id FROM orders WHERE status_id != ?)",
		orderStatusID,
	)
}

// InCollection restricts to members of one collection.
func InCollection(collectionID snowflake.ID) query.Predicate {
	return query.New(
		"invoices.id IN (SELECT DISTINCT invoice_id FROM invoice_collections WHERE collection_id = ?)",
		collectionID,
	)
}

// NotInCollection restricts to non-members of one collection.
func NotInCollection(collectionID snowflake.ID) query.Predicate {
	return query.New(
		"invoices.id NOT IN (SELECT DISTINCT invoice_id FROM invoice_collections WHERE collection_id = ?)",
		collectionID,
	)
}
