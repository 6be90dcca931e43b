// Package pkg provides the core libraries for Superrec synteny
// reconciliation.
//
// # Overview
//
// Superrec reconstructs the evolution of syntenies (ordered sets of
// gene families) along a tree of duplication, speciation and loss
// events. Given a tree whose leaves carry observed syntenies, it
// infers the ancestral syntenies and the segmental events that explain
// them with a minimum number of duplications and losses.
//
// The typical data flow:
//
//	NHX input
//	     ↓
//	[nhx] + [tree] (parse into an event tree)
//	     ↓
//	[recon] (label internal nodes, splice losses, record segments)
//	     ↓
//	[tree] NHX output, or [viz] DOT/SVG/PDF/PNG
//
// # Main Packages
//
// [synteny] - Ordered gene lists, their subsequences, and the
// segmental loss distance between them.
//
// [tree] - The mutable event tree reconciliation algorithms rewrite in
// place, with its NHX encoding.
//
// [recon] - The two reconciliation engines: the exact dynamic program
// over a fixed ancestral order, and the polynomial gene-set heuristic.
//
// [simulate] - Random evolution histories for benchmarking the
// engines against known references.
//
// [evaluate] - Parameter sweeps measuring reconciliation quality and
// speed, with cached reports.
//
// [viz] - Graphviz rendering of event trees.
//
// [nhx] - New Hampshire eXtended tree parsing and formatting.
//
// [extnum] - Integer arithmetic extended with infinities, the cost
// domain of the dynamic program.
//
// [cache] - Content-addressed file cache backing [evaluate].
package pkg
