// Package logadapter routes a Tree's structural events — root
// splits/collapses, iterator latch contention on a sibling handoff, and
// early iterator closes — into zap or logrus instead of the tree's default
// DiscardLogger. It is a separate module from btree itself (see this
// directory's go.mod) so pulling in zap or logrus is opt-in: a caller who
// never imports logadapter never adds either to their build.
//
// A *slog.Logger needs no adapter; it already implements btree.Logger.
package logadapter
