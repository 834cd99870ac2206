// Package metrics defines all custom Prometheus metrics for the QC data-entry
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry via promauto.
// Counters are incremented at the edges (handlers and the bucket store), never
// inside the core services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "qc"

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure" (bad credentials or unknown employee), or
//     "inactive" (deactivated account)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// EntriesCreatedTotal counts test entries appended to date buckets.
// Label:
//   - department: the owning department (e.g. "impact")
var EntriesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of test entries created, by department.",
	},
	[]string{"department"},
)

// SectionMergesTotal counts section merge operations.
// Labels:
//   - department: the owning department (e.g. "melting")
//   - section: the merged section name (e.g. "charging_kg")
var SectionMergesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "section_merges_total",
		Help:      "Total number of section merges applied, by department and section.",
	},
	[]string{"department", "section"},
)

// BucketCreateRacesTotal counts find-or-create races lost on the unique date
// index and resolved by re-reading the winner's document.
var BucketCreateRacesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bucket_create_races_total",
		Help:      "Total number of date-bucket creation races resolved by retry.",
	},
)
