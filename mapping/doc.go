// Package mapping enumerates the integer changes of basis that carry one
// lattice onto another within length and angle tolerances.
//
// Given a source lattice S and a target T, a Mapping is an integer matrix
// M with det M ≠ 0 whose rows combine S's vectors into a basis M·S that has
// the lengths and angles of T:
//
//	1/(1+ltol) < |(M·S)ᵢ| / |Tᵢ| < 1+ltol   (open interval, both ends excluded)
//	|∠((M·S)ⱼ, (M·S)ₖ) − ∠(Tⱼ, Tₖ)| < angleTol
//
// Candidate rows are the lattice points of S inside a sphere of radius
// max|Tᵢ|·(1+ltol). Every point appears with both signs, and every point
// is tried against every target axis, so all sign and permutation variants
// of a basis are discovered, including handedness-flipping ones
// (det M < 0). The sphere is bounded per axis of S (see
// lattice.PointsInSphere), so needle and pancake cells stay cheap when S is
// Niggli-reduced.
//
// Enumeration is lazy (iter.Seq) and deterministic: points are visited in
// order of increasing length, and candidates in (a, b, c) lexicographic
// order of those indices. Consumers stop at the first accepted candidate.
package mapping
