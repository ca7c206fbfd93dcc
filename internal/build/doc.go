// Package build orchestrates the conversion of an imported dataset
// into a browsable archive.
//
// The pipeline runs in strictly sequential stages (posts, subreddits,
// users, site pages). Each stage fans its tasks out over a worker pool
// through a bounded task queue; workers render pages and push results
// into a bounded result queue consumed by a single creator goroutine
// that owns the archive writer.
//
// Design decision: Queues are plain buffered channels and termination
// is explicit. The feeder pushes exactly one StopTask per worker after
// the stage's real tasks; a worker exits after consuming one stop, so
// every worker sees exactly one and none starves. The result queue is
// closed only after every worker has joined, and the creator treats
// that close as its termination signal. No value-level sentinel flows
// through the result queue.
package build
