package search

import (
	"github.com/poiesic/modelscout/core"
)

// Monitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type Monitor interface {
	Start(mode core.Mode, query string)
	AfterRetrieval(results []core.ModelResult)
	AfterEnrichment(results []core.ModelResult)
	Finish(results []core.ModelResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Mode, _ string)          {}
func (n *noopMonitor) AfterRetrieval(_ []core.ModelResult)  {}
func (n *noopMonitor) AfterEnrichment(_ []core.ModelResult) {}
func (n *noopMonitor) Finish(_ []core.ModelResult)          {}
