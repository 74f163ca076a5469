// Package road composes the timeline core into an interactive scene.
//
// A [Scene] owns the entries, the in-memory offsets, the gesture state
// machine, the expansion state and the preview. Everything visible is
// derived on demand: every call to [Scene.Frame] regroups the entries,
// recomputes base positions, applies offsets (and the live offset of an
// ongoing drag), refits the road curve and arranges the expanded group.
// Nothing is cached, so nothing can go stale.
//
// # Pipeline
//
//	entries ─► year groups ─► base positions ─► effective positions ─► curve
//	                                   │                    │
//	                                   └── offsets + drag ──┘
//	expanded group ─► member arc          hovered marker ─► popup
//
// # Input
//
// The scene is driven by pointer events from a single event loop:
//
//	scene.PointerDown("2022", p)
//	scene.PointerMove(p2)      // live feedback, no persistence
//	out := scene.PointerUp(p3) // persists once, or clicks
//
// A press on a year marker by an editor starts a drag; any other press is
// tracked as a tap. A release within the click threshold activates the
// marker: year markers toggle their expansion, ride markers ask the
// [Navigator] to open the ride. A release beyond the threshold stores the
// final offset and hands it to the [Persister], provided the [Authorizer]
// still grants edit privilege.
//
// Collaborators are ports: the scene never talks to storage, routing or
// authentication directly, and never returns errors for degenerate input.
package road
