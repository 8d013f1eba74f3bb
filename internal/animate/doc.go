// Package animate drives a gauge's displayed value from one target to the
// next over a fixed duration.
//
// Work is frame driven and cooperative: a transition schedules a callback on
// a [Scheduler], each callback renders one interpolated value and schedules
// the next, and the chain ends once the eased progress reaches 1. There is no
// cancellation. Instead every [Gauge] carries a generation counter that is
// bumped by each new selection; a callback whose transition generation no
// longer matches returns without touching the renderer, so only the newest
// transition ever writes to the gauge.
//
// Restart semantics: when a selection arrives while a transition is still
// running, the new transition starts from the previous target rather than the
// value currently on screen, which makes the fill jump. Setting
// [Options.RestartFromDisplayed] starts from the on-screen value instead.
package animate
