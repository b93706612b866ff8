// Package matcher decides whether two periodic crystal structures are the
// same crystal up to choice of lattice basis, supercell, rigid translation,
// site permutation, rotation and (optionally) isotropic scaling, and
// reports the best alignment when they are.
//
// Pipeline for one pair:
//
//  1. Prepare: validate, wrap, Niggli-reduce, optionally reduce to the
//     primitive cell, sort sites by (species key, x, y, z).
//  2. Composition check: reduced compositions under the comparator must
//     agree, otherwise the answer is "no match" without any search.
//  3. Supercell size and volume normalization (Options.Scale).
//  4. Lattice mapping search (package mapping): every integer M with
//     |det M| equal to the supercell size carrying one reduced basis onto
//     the other within LTol and AngleTol, enumerated lazily.
//  5. Site correspondence: anchor the rarest species, try every translation
//     that maps the anchor onto a compatible site, prefilter with a
//     per-axis fractional tolerance, assign sites (package assign), remove
//     the mean displacement and score in units of the mean site spacing
//     (V/N)^(1/3) of the averaged lattice.
//  6. Accept iff the largest per-site displacement is below STol.
//
// Fit stops at the first accepted candidate. RMSDist and Match search all
// candidates for the smallest RMS, stopping early only on an exact match.
// The pair is put in a canonical order before the search, so Fit and
// RMSDist are exactly symmetric in their arguments.
//
// A Matcher is immutable after New and safe for concurrent use. Every call
// reads only its arguments.
//
// Options:
//   - LTol (0.2): lattice length ratios must lie in (1/(1+LTol), 1+LTol).
//   - STol (0.3): site tolerance as a fraction of the mean site spacing.
//   - AngleTol (5°).
//   - Scale (true): normalize volumes before matching.
//   - Comparator (species): structure.SpeciesComparator or ElementComparator.
//   - PrimitiveCell (false), AttemptSupercell (false).
//   - Assignment (Auto): Auto, Greedy or Hungarian site assignment.
package matcher
