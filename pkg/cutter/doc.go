// Package cutter slices raw scans into the strips the solver works on.
//
// Every scan yields [Geometry.Count] strips. Strip i is the rectangle
// starting at (X0 + i*Step, Y) of size Width x Height, scaled with
// nearest-neighbor sampling to fit inside FitWidth x FitHeight while
// keeping its aspect ratio. With the defaults a 10 x 10330 crop becomes a
// 1 x 1033 strip.
//
// Output files are named <stem>-<i><ext> after their scan. Existing outputs
// are kept, and a scan is only decoded when at least one of its strips is
// missing, so cutting is cheap to repeat after new scans arrive.
package cutter
