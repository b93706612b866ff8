// Package fixture builds deterministic crystal structures for tests,
// examples and benchmarks: textbook prototypes (FCC, BCC, HCP, rocksalt,
// diamond, perovskite) and seeded random cells with shuffled, translated
// or jittered variants.
//
// Randomness policy: every generator takes an explicit *rand.Rand built
// with RNG; seed 0 maps to a fixed default so runs are reproducible.
// math/rand.Rand is not goroutine-safe; use Derive to hand each worker its
// own stream.
package fixture
