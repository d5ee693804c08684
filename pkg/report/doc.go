// Package report saves and loads reconstructions as JSON.
//
// A report names strips by file name rather than store index, so it stays
// valid when the strip directory is reloaded in a different order or gains
// new files. It is written by "unshred solve --report" and read back by
// "unshred compose" to redraw a reconstruction without scoring again.
//
// # JSON Format
//
//	{
//	  "run_id": "0b6c...",
//	  "strips": 5,
//	  "clusters": [
//	    {"id": 0, "chain": ["a-1.png", "a-0.png", "a-2.png"], "coverage": 1},
//	    {"id": 1, "chain": ["b-0.png"], "leftovers": [["b-1.png"]], "coverage": 0.5}
//	  ]
//	}
//
// chain is the primary chain in left-to-right order; leftovers are the
// fragments that could not be joined to it. Every strip name appears at most
// once in a report.
package report
