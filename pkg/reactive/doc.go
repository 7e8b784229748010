// Package reactive provides the reactive primitives the demo components are
// built on: signals, effects, and update batching.
//
// A Signal is a value container. Reading it inside an effect subscribes the
// effect; writing it re-runs every subscribed effect. Batch groups several
// writes into a single notification pass.
//
// Example:
//
//	count := reactive.NewSignal(0)
//
//	reactive.NewEffect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return nil
//	})
//
//	count.Set(1) // effect re-runs, prints "count is 1"
package reactive
