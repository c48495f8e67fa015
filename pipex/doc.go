// Package pipex runs pipe stages concurrently, one task per stage, linked by
// bounded channels.
//
// A Channel is a single-writer, single-reader buffer. Writers block while it
// is full, which throttles upstream stages; readers block while it is empty
// and open. Close marks the end of the stream and a channel is complete once
// it is closed and drained.
//
// A SerialProcess reads its input channel and writes its output channel one
// step at a time until the input is complete, then closes its output so that
// completion flows downstream. A SerialComposition links n stages with n-1
// fresh channels and runs them together on an Executor:
//
//	in, _ := pipex.NewChannel[graph.Vertex](16)
//	out, _ := pipex.NewChannel[string](16)
//	comp, err := pipex.NewSerialComposition(16, in, out, []pipex.Stage{
//	    pipex.ExpandProcess("out_edges", outEdges),
//	    pipex.MapProcess("in_vertex", inVertex),
//	    pipex.MapProcess("name", name),
//	})
//	go feed(in)
//	err = comp.Run(ctx)
//
// The first stage that fails cancels the rest and Run returns it as a
// STAGE_FAILED error carrying the stage name.
package pipex
