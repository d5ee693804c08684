// Package cluster groups strips by color palette compatibility.
//
// Strips cut from the same photograph tend to draw their colors from the same
// palette, while strips from different photographs rarely do. [Group] orders
// strips by palette size, largest first, and lets every strip found a cluster
// unless its palette is a subset of an existing cluster's representative
// palette. The representative is always the palette of the cluster's founding
// member, which is the largest palette the cluster will ever see.
//
// # Membership
//
// A palette can be a subset of several representatives. With [AllMatch] (the
// default) the strip joins every such cluster, so a strip index may appear in
// more than one cluster. [FirstMatch] stops at the first matching cluster and
// yields a true partition.
//
// Ties in palette size keep store order. That order is an implementation
// detail and callers must not depend on it.
package cluster
