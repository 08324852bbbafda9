// Package gear derives the mating geometry of a bevel gear pair.
//
// A Spec holds the gear-side macro parameters. Solve runs the closed-form
// pipeline (pitch cone, tooth heights, pinion offsets) and returns an
// immutable SolvedSpec from which gear and pinion Instances are taken.
// Angles are in degrees and lengths in millimetres throughout.
package gear
