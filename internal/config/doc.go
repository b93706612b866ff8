// Package config loads structmatch settings from, in increasing priority,
// built-in defaults, an optional YAML file, STRUCTMATCH_* environment
// variables and explicitly set command-line flags.
//
// Keys use the flag spelling; the environment form upper-cases them and
// replaces '-' with '_':
//
//	ltol: 0.2            # STRUCTMATCH_LTOL
//	angle-tol: 5         # STRUCTMATCH_ANGLE_TOL
//	attempt-supercell: true
//	log-level: debug
package config
