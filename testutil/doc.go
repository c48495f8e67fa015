// Package testutil provides shared helpers for pipes and pipex tests.
//
//   - ToyGraph builds the six-vertex "classic" property graph
//   - Drain and AssertExhausted check lazy sequences
//   - T(t).Start runs a component for the length of a test
//
// Example:
//
//	func TestWalk(t *testing.T) {
//	    g := testutil.ToyGraph(t)
//	    marko := testutil.MustVertex(t, g, 1)
//	    ...
//	    got := testutil.Drain(t, p)
//	    testutil.AssertExhausted(t, p)
//	}
package testutil
