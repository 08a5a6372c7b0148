// Package metrics defines the custom Prometheus collectors of the library
// admin API. HTTP request metrics come from echoprometheus; the collectors
// here cover the catalog and the directory.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Lending ──────────────────────────────────────────────────────────────────

// LoansTotal counts applied take/free transitions.
// Label:
//   - action: "take" or "free"
var LoansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loans_total",
		Help:      "Total number of take/free requests that changed ownership, by action.",
	},
	[]string{"action"},
)

// ReplayedLoanRequestsTotal counts take/free requests acknowledged without side
// effects because their Idempotency-Key was already used.
var ReplayedLoanRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loan_replayed_requests_total",
		Help:      "Total number of take/free requests skipped as idempotent replays.",
	},
	[]string{"action"},
)

// OverdueBooksServed counts overdue books returned by a person's book listing.
var OverdueBooksServed = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overdue_books_served_total",
		Help:      "Total number of overdue books returned by person book listings.",
	},
)

// ── Catalog and directory ────────────────────────────────────────────────────

// MutationsTotal counts successful writes.
// Labels:
//   - resource: "book" or "person"
//   - op: "create", "update" or "delete"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of successful create/update/delete operations.",
	},
	[]string{"resource", "op"},
)

// AccessDeniedTotal counts requests rejected by an access rule.
// Label:
//   - route: the matched echo route path
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by role or identity checks.",
	},
	[]string{"route"},
)
