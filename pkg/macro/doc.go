// Package macro describes the manufacturable body around a bevel gear or
// pinion: the blank diameters, web and rib, mounting stem or spherical
// seat. A Geometry carries a shared Header plus exactly one variant
// payload; a PairMacro ties a gear-side and a pinion-side Geometry to the
// instances of a solved pair.
package macro
