// Package imageedit applies image filter chains.
//
// The primary backend is GIMP, driven out of process through an embedded
// bridge script run by a separate interpreter against a virtual display. A
// capability probe decides whether the bridge can load at all; when it
// cannot, or when a primary run fails, the chain is applied by an in-process
// approximation built on the imaging library and the result is labeled as
// produced by the fallback backend.
//
// The package also renders blank design templates.
package imageedit
