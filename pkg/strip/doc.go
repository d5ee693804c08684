// Package strip holds the decoded strips of a reassembly run.
//
// A [Store] is populated once, either from a directory of strip files with
// [Load] or from in-memory images with [FromImages], and is read-only after
// that. Every strip is kept in two encodings:
//
//   - RGB: 8-bit channel triples, used for palettes and final composition
//   - Float: float32 channel triples in [0, 1], used for affinity scoring
//
// All strips in a store share one width and height. Loading rejects inputs
// whose dimensions disagree with an error carrying
// [errors.ErrCodeShapeMismatch], so downstream stages never see mixed shapes.
//
// Because buffers are never mutated after loading, a Store may be shared by
// reference across scoring goroutines without synchronization.
//
// [errors.ErrCodeShapeMismatch]: github.com/matzehuels/unshred/pkg/errors
package strip
