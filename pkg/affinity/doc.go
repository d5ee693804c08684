// Package affinity scores how likely two strips are to be neighbors.
//
// [Delta] compares two strips pixel by pixel. Positions whose color
// difference reaches the gradient threshold are treated as noise and
// dropped. The remaining differences are compressed with repeated square
// roots and averaged, with an optional bonus that rewards pairs agreeing on
// many positions. A pair without enough agreeing positions gets [MaxScore],
// a large finite sentinel rather than an error.
//
// [Score] computes Delta for every unordered pair of a cluster on a fixed
// pool of goroutines. Workers claim pairs through a shared atomic cursor
// over a precomputed pair list and write each result into its own slot, so
// neither claiming nor reporting takes a lock.
//
// Edges come back in pair order, which is not a ranking. Callers sort them
// with [Sort] before handing them to the chain assembler.
//
// # Parameters
//
//   - MaxGradient: per-channel difference at which a position is discarded
//   - SqrtCount: number of square roots applied to each retained difference
//   - ConfidenceBonus: exponent on the retained count in the denominator
//   - MinConfidence: minimum retained positions per row of strip height
//   - Workers: scorer goroutines
//   - Weighting: whether channel differences are summed or averaged
package affinity
