// Package orchestrator wires the pipeline together: load a device layout,
// parse it into device models, build a scene, and hand it to a renderer
// backend for scene emission and rasterisation.
package orchestrator
