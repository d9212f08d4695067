// Package metrics defines and registers the custom Prometheus metrics of the
// tailor admin API. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics are registered with the default Prometheus registry at package
// init via promauto; HTTP request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tailorshop"

// ── Account metrics ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login outcomes.
// Labels:
//   - operation: "signup" or "login"
//   - result: "success", "conflict", "invalid_credentials", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// SessionsRevokedTotal counts logouts that put a token on the denylist.
var SessionsRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_revoked_total",
		Help:      "Total number of access tokens revoked by logout.",
	},
)

// PasswordHashDuration measures bcrypt hashing time. It moves with BCRYPT_COST.
var PasswordHashDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of a single password hash computation.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
	},
)

// UsersDeletedTotal counts accounts removed by administrators.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of accounts deleted.",
	},
)

// ── Client metrics ────────────────────────────────────────────────────────────

// ClientRecordsTotal counts measurement record mutations.
// Label:
//   - operation: "create", "update", or "delete"
var ClientRecordsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_records_total",
		Help:      "Total number of client measurement record mutations, by operation.",
	},
	[]string{"operation"},
)
