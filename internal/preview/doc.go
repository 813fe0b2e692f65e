// Package preview serves a built site locally and rebuilds it when sources
// change.
//
// A Server performs an initial build, serves the output directory with a chi
// router (plus /healthz and /metrics), watches the posts, templates, images
// and stylesheet with fsnotify and runs a debounced full rebuild after
// changes. With a rebuild interval configured, a gocron job also requests a
// rebuild periodically. Rebuilds never overlap; a request arriving during a
// build is coalesced into one follow-up build.
package preview
