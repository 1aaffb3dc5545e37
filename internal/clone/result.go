package clone

import (
	"sync"
	"sync/atomic"
)

// Failure records one node that could not be replicated. Reason carries the
// final error text after the retry budget was exhausted (for transient
// errors) or the immediate error (for permanent ones).
type Failure struct {
	NodeID string `json:"node_id"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Result is the outcome of cloning one subtree. A nil-error Run can still
// carry a non-empty Failures list — callers must inspect it to detect
// partial success.
type Result struct {
	RootID         string    `json:"root_id"`
	FoldersCreated int       `json:"folders_created"`
	FilesCopied    int       `json:"files_copied"`
	Failures       []Failure `json:"failures,omitempty"`
}

// aggregator accumulates counts and failures across the walk. Counters are
// atomic and the failure slice is mutex-guarded so parallel sibling workers
// can contribute concurrently; merge order is not significant.
type aggregator struct {
	rootID         string
	foldersCreated atomic.Int64
	filesCopied    atomic.Int64

	mu       sync.Mutex
	failures []Failure
}

func newAggregator(rootID string) *aggregator {
	return &aggregator{rootID: rootID}
}

func (a *aggregator) addFolder() {
	a.foldersCreated.Add(1)
}

func (a *aggregator) addFile() {
	a.filesCopied.Add(1)
}

func (a *aggregator) addFailure(nodeID, name string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.failures = append(a.failures, Failure{
		NodeID: nodeID,
		Name:   name,
		Reason: err.Error(),
	})
}

// snapshot materializes the accumulated state into a Result. Safe to call
// only after all workers have finished or been canceled.
func (a *aggregator) snapshot() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	return &Result{
		RootID:         a.rootID,
		FoldersCreated: int(a.foldersCreated.Load()),
		FilesCopied:    int(a.filesCopied.Load()),
		Failures:       a.failures,
	}
}
