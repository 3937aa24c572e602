// Package spatial provides an optional broad phase for the visibility
// computation. It narrows the obstacles tested against each scan line to
// those whose bounding boxes overlap the scan line's bounding box; the exact
// test is still sight.SegmentIntersection.
package spatial

import (
	"math"
	"slices"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"

	"chosenoffset.com/lineofsight/internal/core/sight"
)

// Every bounding box grows on all sides by pad plus relativePad times its
// largest coordinate magnitude. This gives axis-aligned segments a non-zero
// extent and makes boxes that only touch overlap, even where pad alone
// would round away.
const (
	pad         = 1e-6
	relativePad = 1e-12
)

var errUnboundedSegment = errors.New("segment has no finite bounding box")

// Tree branching factors.
const (
	minChildren = 25
	maxChildren = 50
)

// entry is one obstacle stored in the tree. order is its position in the
// original scene, used to hand candidates back in scene order.
type entry struct {
	segment sight.Segment
	order   int
	bounds  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect {
	return e.bounds
}

// Index is an R-tree over a fixed set of obstacle segments. It implements
// sight.Obstacles and is safe for concurrent queries once built.
type Index struct {
	tree *rtreego.Rtree
	all  []sight.Segment
}

// NewIndex builds an index over segments. It keeps its own copy of the
// slice.
func NewIndex(segments []sight.Segment) (*Index, error) {
	spatials := make([]rtreego.Spatial, 0, len(segments))
	for i, s := range segments {
		bounds, err := segmentBounds(s)
		if err != nil {
			return nil, errors.Wrapf(err, "bounding box of segment %d %v", i, s)
		}
		spatials = append(spatials, &entry{segment: s, order: i, bounds: bounds})
	}

	return &Index{
		tree: rtreego.NewTree(2, minChildren, maxChildren, spatials...),
		all:  slices.Clone(segments),
	}, nil
}

// Size returns the number of indexed segments.
func (idx *Index) Size() int {
	return idx.tree.Size()
}

// Candidates returns the segments whose bounding boxes overlap the ray's, in
// the order they had in the indexed scene. A ray without a usable bounding
// box gets every segment.
func (idx *Index) Candidates(ray sight.Segment) []sight.Segment {
	bounds, err := segmentBounds(ray)
	if err != nil {
		return slices.Clone(idx.all)
	}

	found := idx.tree.SearchIntersect(bounds)
	entries := make([]*entry, len(found))
	for i, s := range found {
		entries[i] = s.(*entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	segments := make([]sight.Segment, len(entries))
	for i, e := range entries {
		segments[i] = e.segment
	}
	return segments
}

func segmentBounds(s sight.Segment) (rtreego.Rect, error) {
	minX := math.Min(s.Start.X, s.End.X)
	minY := math.Min(s.Start.Y, s.End.Y)
	maxX := math.Max(s.Start.X, s.End.X)
	maxY := math.Max(s.Start.Y, s.End.Y)

	scale := max(math.Abs(minX), math.Abs(maxX), math.Abs(minY), math.Abs(maxY))
	grow := pad + relativePad*scale

	minX, minY = minX-grow, minY-grow
	maxX, maxY = maxX+grow, maxY+grow

	width, height := maxX-minX, maxY-minY
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return rtreego.Rect{}, errUnboundedSegment
	}

	return rtreego.NewRect(rtreego.Point{minX, minY}, []float64{width, height})
}
