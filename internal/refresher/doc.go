// Package refresher implements the cache warmer.
//
// The refresher:
//   - Recomputes the configured timeframes on a fixed interval
//   - Warms immediately on start
//   - Bounds concurrent recomputes with a semaphore
//   - Hands each fresh response to an optional handler (the live hub)
package refresher
