// Package matterviz decides whether two periodic crystal structures are the
// same crystal, up to lattice choice, origin shift, site order and,
// optionally, isotropic scaling or an integer supercell.
//
// 🚀 What is in the box?
//
//	A pure-Go structure matcher built from small, composable layers:
//		• Lattice algebra: parameters, minimum image, LLL and Niggli reduction
//		• Structures: species, ordered sites, compositions, supercells, primitive cells
//		• Lattice mapping: lazy enumeration of every matching basis
//		• Site assignment: greedy anchor matcher and Hungarian solver
//		• Matching: Fit, RMSDist, Match, Group, FitAnonymous
//		• Batch: bounded parallel pairwise matrices and grouping
//
// Under the hood, everything is organized into flat subpackages:
//
//	lattice/  : Vec3/Mat3, Lattice, image finder, LLL, Niggli, points in sphere
//	structure/: Species, Site, Structure, Composition, Comparator, Primitive
//	mapping/  : lattice mappings within length and angle tolerances
//	assign/   : rectangular assignment: Greedy, Hungarian, Feasible
//	matcher/  : normalization, strict match and the façade
//	batch/    : errgroup-backed Pairwise and Group with zap logging
//	cmd/structmatch: command line front end over pymatgen JSON
//
// Quick example:
//
//	m := matcher.Must(matcher.DefaultOptions())
//	ok, err := m.Fit(a, b)
//
// reports whether a and b describe the same crystal; m.RMSDist(a, b) adds
// the normalized RMS and maximum site displacement of the best alignment.
//
//	go install github.com/janosh/matterviz-sub000/cmd/structmatch@latest
package matterviz
