// Package pkg holds the roadline libraries.
//
// # Overview
//
// roadline draws a club's rides as markers along a winding road. The
// libraries split into three areas:
//
//  1. Core: [timeline] (entries and year groups), [geom], and [road] with
//     its layout, curve, drag, cluster and preview subpackages
//  2. Output: [render] (styles, SVG/JSON/PNG/PDF sinks, nodelink diagrams)
//     and [io] (entry import and export)
//  3. Infrastructure: [offsets], [session], [cache], [pipeline],
//     [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	rides.json / rides.yaml / rides.csv
//	         ↓
//	    [io] package (decode and validate entries)
//	         ↓
//	    [road] package (group by year, place markers, fit the road, apply offsets)
//	         ↓
//	    [render/sink] package (SVG, JSON, PNG, PDF)
//
// Interactive front ends (the terminal view and the HTTP scene API) keep a
// [road.Scene] alive, feed it pointer events and persist finished drags
// through an [offsets.AsyncWriter].
//
// # Quick Start
//
//	entries, _ := io.ImportEntries("rides.yaml")
//	scene := road.New(entries, road.DefaultConfig())
//	svg := sink.RenderSVG(scene.Frame())
package pkg
