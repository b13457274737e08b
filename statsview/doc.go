// Package statsview serves runtime statistics of the emulator process over
// HTTP. The server is only compiled in with the statsview build tag:
//
//	go build -tags statsview
//
// After launch, graphs of goroutines, heap and GC activity are viewable at:
//
//	localhost:12800/debug/statsview
//
// Without the tag Available returns false and Launch does nothing.
package statsview
