// Package lattice provides the 3×3 lattice algebra used by the structure
// matcher.
//
// A Lattice is an immutable 3×3 real matrix whose ROWS are the three
// periodicity vectors. Fractional coordinates are row vectors f and map to
// Cartesian coordinates as c = f·L.
//
// What lives here:
//
//   - Vec3 / Mat3 / IntMat3: fixed-size vector and matrix values.
//   - Lattice: determinant, volume, metric tensor G = L·Lᵀ, parameters
//     (a, b, c, α, β, γ), reciprocal lengths, Cartesian ↔ fractional.
//   - ImageFinder: minimum-image displacement across periodic images,
//     correct for triclinic and highly oblique cells.
//   - LLL: Lenstra–Lenstra–Lovász basis reduction (δ = 0.75).
//   - Niggli: Křivý–Gruber reduction to the Niggli cell, with an iteration
//     bound and cycle detection.
//   - PointsInSphere: all lattice points within a radius, the box bounded
//     per axis by the reciprocal lengths.
//
// Numeric policy:
//
//   - Non-finite input is rejected with ErrNaNInf.
//   - A zero-volume basis is rejected with ErrSingular.
//   - Left-handed bases (negative determinant) are accepted everywhere.
//
// Determinant and inverse are computed with gonum/mat; the hot-path
// products (f·L, G entries) are unrolled 3×3 arithmetic.
package lattice
