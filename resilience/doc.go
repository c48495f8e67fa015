// Package resilience provides concurrency limiting for pipex.
//
// A Bulkhead caps the number of concurrently running tasks. Execute runs a
// function inline once a slot is free; Go acquires the slot and runs the
// function on its own goroutine:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "stages",
//	    MaxConcurrent: 4,
//	    MaxWait:       resilience.WaitForever,
//	})
//	err := bh.Go(ctx, func() { stage.Run(ctx) })
package resilience
