// Package io reads and writes timeline entries.
//
// # Overview
//
// Entries come from the club's album table as JSON, from hand-kept YAML
// files, or from spreadsheets exported as CSV. All three decode into
// []timeline.Entry:
//
//	entries, err := io.ImportEntries("rides.yaml")
//
// The format is taken from the file extension ([DetectFormat]); readers
// that are not files use [ReadEntries] with an explicit [Format].
//
// # JSON
//
// Either a bare array or an object with an "entries" (or "albums") array:
//
//	[
//	  {"id": "r1", "title": "Opener", "event_date": "2021-03-01"},
//	  {"id": "r2", "title": "Coast", "event_date": "2022-06-15",
//	   "location_name": "Outer Banks", "photo_count": 42}
//	]
//
// # YAML
//
// The same fields, as a sequence or under an "entries" key.
//
// # CSV
//
// A header row names the columns, matched case-insensitively. "id",
// "title" and "event_date" (or "date") are required; "description",
// "cover_photo_url", "location_name" and "photo_count" are optional.
//
// # Validation
//
// Every entry needs a valid ID (see errors.ValidateKey) and IDs must be
// unique. Cover URLs must be http(s) or site-relative. Dates are NOT
// checked here: an unparseable date is a per-entry problem the scene logs
// and skips, never a reason to reject the whole file.
package io
