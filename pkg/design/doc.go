// Package design defines the value produced by evaluating a bevel design
// script: the project, the solved gear pair and, optionally, the body
// geometry of both members. A Design is never mutated after evaluation;
// each evaluation produces a new one.
package design
