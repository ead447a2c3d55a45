// Package index defines the secondary index contract and an in-memory
// implementation of it.
//
// SIIndex is the capability table every index backend provides:
//
//	Apply(changes) error      atomic batch of Add/Delete change records
//	Find(query) *Cursor       lazy cursor over matching identifiers
//	Len() int                 number of indexed identifiers
//
// CURSOR PROTOCOL:
//
// A Cursor is single-pass and not restartable. Next returns ("", false) both
// when the results are exhausted and when the backend fails; callers must
// check Err (or Failed) to tell the two apart:
//
//	cur := idx.Find(q)
//	defer cur.Close()
//	for id, ok := cur.Next(); ok; id, ok = cur.Next() {
//	    ...
//	}
//	if err := cur.Err(); err != nil {
//	    // index error, not "no more matches"
//	}
//
// SCHEMA:
//
// Spec describes the indexed properties as ordered {type, flags} pairs.
// It is metadata; enforcing it is each backend's job. Both backends in this
// module reject rows whose arity or kinds disagree with the Spec.
//
// Nothing in this package locks. Hosts sharing an index across goroutines
// must serialize access themselves.
package index
