// Package harness runs index scenarios described in YAML.
//
// A scenario loads an index schema, applies change batches, runs queries
// (optionally reducing their rows with an aggregate) and checks assertions
// against the outcome. The same scenario runs unchanged against every index
// backend, and its textual report is compared with a golden file so that
// backends cannot drift apart.
//
// # Scenario Format
//
//	name: people_basics
//	description: "Adults who are active"
//	spec: people.cue            # CUE schema, relative to the scenario file
//	batches:
//	  - changes:
//	      - add: a
//	        values: [30, true, "alice"]
//	      - delete: b
//	    expect_error: MISSING_ID   # optional index error code
//	queries:
//	  - name: adults
//	    where:
//	      and:
//	        - {prop: age, op: ">=", value: 18}
//	        - {prop: active, op: "=", value: true}
//	    aggregate: {func: avg, prop: age}
//	assertions:
//	  - type: rows
//	    count: 1
//	  - type: query_ids
//	    query: adults
//	    ids: [a]
//
// Properties may be given inline under properties: instead of spec:.
// A where node is either a predicate (prop, op, value) or a list of
// children under and: or or:. Properties are referenced by name or "$N".
// Value "+inf" and "-inf" are infinity literals; null is the Null literal.
//
// # Assertion Types
//
//   - rows: the index holds exactly count rows after all batches
//   - query_ids: the query returned exactly ids, in order
//   - query_count: the query returned count ids
//   - query_error: the query failed with the index error code
//   - aggregate: the query's aggregate produced value
package harness
