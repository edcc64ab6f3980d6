// Package search resolves raw, stringly-typed store search requests into
// validated, deterministic query plans. Sort and status tokens arrive
// from a transport boundary and are matched against exhaustive
// allow-lists; anything unrecognized falls back to a safe default
// rather than reaching the storage layer.
package search

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors for search requests.
var (
	ErrInvalidPage    = errors.New("page must be a positive integer")
	ErrInvalidPerPage = errors.New("per_page must be a positive integer")
)

// Column identifies a sortable store attribute. The set is closed:
// only values defined here can ever appear in an ORDER BY.
type Column int

const (
	// ColumnCreatedAt is the default sort column.
	ColumnCreatedAt Column = iota
	ColumnName
	ColumnDescription
	ColumnSlug
	// ColumnStripeAccount is synthetic: it sorts on presence of the
	// stripe account id, i.e. on active status.
	ColumnStripeAccount
	// ColumnProductCount is synthetic: it sorts on the aggregated
	// product count, not a plain row column.
	ColumnProductCount
)

// String returns the request-token spelling of the column.
func (c Column) String() string {
	switch c {
	case ColumnCreatedAt:
		return "createdAt"
	case ColumnName:
		return "name"
	case ColumnDescription:
		return "description"
	case ColumnSlug:
		return "slug"
	case ColumnStripeAccount:
		return "stripeAccountId"
	case ColumnProductCount:
		return "productCount"
	default:
		return "unknown"
	}
}

// Direction is a sort direction.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// String returns the SQL spelling of the direction.
func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// Order is a validated (column, direction) pair.
type Order struct {
	Column    Column
	Direction Direction
}

// DefaultOrder is applied when the sort token is absent, malformed, or
// names an unknown field: newest stores first.
var DefaultOrder = Order{Column: ColumnCreatedAt, Direction: Descending}

// Status is a store activity filter value.
type Status int

const (
	StatusActive Status = iota
	StatusInactive
)

// Request is a raw search request as it arrives from the boundary.
// Sort and Statuses are compound tokens ("field.direction" and
// "s1.s2..." respectively); OwnerID narrows results to one owner when
// non-nil.
type Request struct {
	Page     int
	PerPage  int
	Sort     string
	Statuses string
	OwnerID  uuid.UUID
}

// Plan is the validated, deterministic query plan derived from a
// Request. It is immutable once resolved; the storage layer maps its
// enums onto SQL through its own allow-list and never sees the raw
// request strings.
type Plan struct {
	Limit   int
	Offset  int
	Order   Order
	Status  *Status
	OwnerID uuid.UUID
}

// Resolve validates a raw Request and produces a Plan.
// Page and PerPage must be positive; everything else degrades to a
// safe default instead of failing. Unrecognized sort fields or
// directions yield DefaultOrder, and a status token naming both or
// neither of {active, inactive} yields no status predicate at all.
func Resolve(req Request) (*Plan, error) {
	if req.Page < 1 {
		return nil, ErrInvalidPage
	}
	if req.PerPage < 1 {
		return nil, ErrInvalidPerPage
	}

	return &Plan{
		Limit:   req.PerPage,
		Offset:  (req.Page - 1) * req.PerPage,
		Order:   parseSort(req.Sort),
		Status:  parseStatuses(req.Statuses),
		OwnerID: req.OwnerID,
	}, nil
}

// parseSort parses a "field.direction" token. The direction must be
// exactly "asc" or "desc" and the field must name an allow-listed
// column; otherwise the default order applies.
func parseSort(token string) Order {
	field, dir, ok := strings.Cut(token, ".")
	if !ok {
		return DefaultOrder
	}

	var direction Direction
	switch dir {
	case "asc":
		direction = Ascending
	case "desc":
		direction = Descending
	default:
		return DefaultOrder
	}

	column, ok := columnFromField(field)
	if !ok {
		return DefaultOrder
	}

	return Order{Column: column, Direction: direction}
}

// columnFromField maps a request field name onto the closed Column set.
func columnFromField(field string) (Column, bool) {
	switch field {
	case "createdAt":
		return ColumnCreatedAt, true
	case "name":
		return ColumnName, true
	case "description":
		return ColumnDescription, true
	case "slug":
		return ColumnSlug, true
	case "stripeAccountId":
		return ColumnStripeAccount, true
	case "productCount":
		return ColumnProductCount, true
	default:
		return 0, false
	}
}

// parseStatuses parses a "s1.s2..." token into an optional status
// predicate. Exactly one of {active, inactive} yields a predicate;
// both, neither, or only unknown values yield none (a no-op filter,
// not an empty result).
func parseStatuses(token string) *Status {
	var active, inactive bool
	for _, part := range strings.Split(token, ".") {
		switch part {
		case "active":
			active = true
		case "inactive":
			inactive = true
		}
	}

	if active == inactive {
		return nil
	}

	s := StatusInactive
	if active {
		s = StatusActive
	}
	return &s
}
