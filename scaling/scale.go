package scaling

import (
	"iter"
	"math/bits"
)

// ScalePoint is one node count of a study with the problem sizes derived
// for it.
type ScalePoint struct {
	Nodes              int
	TableScale         int
	CCRMATScale        int
	CCLinkedListScale  int
	KrowkeeVertexScale int
}

// Log2Floor returns floor(log2(n)) for n >= 1.
func Log2Floor(n int) int {
	return bits.Len(uint(n)) - 1
}

// NodeCounts yields min, 2*min, 4*min, ... while the count is at most max.
// It yields nothing when min is below 1.
func NodeCounts(min, max int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if min < 1 {
			return
		}
		for n := min; n <= max; n *= 2 {
			if !yield(n) {
				return
			}
			// Doubling past max/2 would exceed max or overflow.
			if n > max/2 {
				return
			}
		}
	}
}

// ScalesFor derives the problem sizes for nodes. The krowkee scale is
// always derived, whether or not the embedding experiment runs.
func (c Config) ScalesFor(nodes int) ScalePoint {
	lg := Log2Floor(nodes)

	ccRMAT := c.CCGraphScalePerNode
	if c.CCRMATGraphScalePerNode != nil {
		ccRMAT = *c.CCRMATGraphScalePerNode
	}
	ccLinkedList := c.CCGraphScalePerNode
	if c.CCLinkedListGraphScalePerNode != nil {
		ccLinkedList = *c.CCLinkedListGraphScalePerNode
	}

	return ScalePoint{
		Nodes:              nodes,
		TableScale:         c.TableScalePerNode + lg,
		CCRMATScale:        ccRMAT + lg,
		CCLinkedListScale:  ccLinkedList + lg,
		KrowkeeVertexScale: c.KrowkeeVertexScalePerNode + lg,
	}
}
