// Package harness provides a conformance testing framework for YQL query
// definitions.
//
// A scenario is a YAML file naming CUE spec files and, for each query they
// declare, the expected outcome:
//
//	name: catalog
//	description: Select and insert from one spec file
//	specs:
//	  - ../specs/catalog.cue
//	cases:
//	  - query: quotes
//	    valid: true
//	    kind: select
//	    contains: ["order by Ask desc"]
//	  - query: broken
//	    valid: false
//	    findings: [where.inner.table]
//
// Run compiles the specs, renders or explains every case's query, records
// the valid ones in a fresh in-memory catalog (see package store), and
// reports per-case mismatches. Render mismatches carry a go-cmp diff.
//
// RunWithGolden additionally snapshots the whole result as JSON to
// testdata/golden/<name>.golden via goldie. Run IDs come from a sequence
// generator and query IDs are content hashes, so snapshots are stable.
package harness
