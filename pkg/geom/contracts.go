package geom

// LayerID identifies a named layer within a Layout (scope, intruder, and
// output layers are each a LayerID, per spec.md §6).
type LayerID int

// Cell is the "provided by the layout subsystem" contract spec.md §6
// assumes: a named unit of layout holding per-layer shape sets and an
// ordered list of child instance placements. Concrete implementations
// live in package layoutstore.
type Cell interface {
	ID() CellID
	// Shapes returns the polygon refs on layer, in this cell's own frame.
	Shapes(layer LayerID) []PolygonRef
	// AppendShape adds ref to layer. Per spec.md's data model, shape sets
	// are append-only during a processor run, and only ever appended to
	// via the processor's output-layer writes.
	AppendShape(layer LayerID, ref PolygonRef)
	// Instances returns this cell's child instance placements, in stable
	// (insertion) order.
	Instances() []CellInstArray
	// BBox returns the hierarchical bounding box of layer: this cell's
	// own shapes on layer together with those of every cell it places,
	// recursively, expressed in this cell's own frame (used by
	// box-convert adapters for instances-on-a-layer).
	BBox(layer LayerID) Box
}

// ChangesGuard is the scoped "changes in progress" marker spec.md §6 and
// §4.7 describe: the processor acquires it on entry and is guaranteed to
// release it on every exit path. Concrete implementation lives in package
// layoutstore.
type ChangesGuard interface {
	// Acquire marks the guard held and returns a release function the
	// caller must invoke exactly once, typically via defer.
	Acquire() (func(), error)
}

// Layout is the "provided by the layout subsystem" contract for the whole
// hierarchy: cells by id, a shared shape repository, a bottom-up
// traversal order, and a scoped changes-in-progress marker. Concrete
// implementation lives in package layoutstore.
type Layout interface {
	Cell(id CellID) (Cell, bool)
	// BottomUp returns every cell reachable from the top cell, in
	// bottom-up order (children before any parent that instantiates
	// them), per spec.md §4.5.
	BottomUp() []CellID
	Repository() ShapeRepository
	Guard() ChangesGuard
}
