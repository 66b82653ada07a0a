// Package reactive adds the operators that github.com/cilium/stream does not
// ship: sources built from callables, subscription and element delays, take,
// merge, zip, combine-latest, race, backoff retry and signal taps.
//
// Every operator keeps the stream.Observable contract: Observe does not block,
// next and complete are never called concurrently and complete is called
// exactly once. Operators that subscribe to several sources complete only
// after all of them have terminated.
package reactive
