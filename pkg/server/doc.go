// Package server exposes treemap navigation over HTTP.
//
// Each session owns one laid-out tree and its [zoom.Navigator]. Calls on a
// session are serialized by a per-session mutex; different sessions run in
// parallel. Sessions live in memory until deleted.
//
// # Routes
//
//	POST   /api/sessions?width=&height=&format=   create from a tree document
//	GET    /api/sessions/{id}                     navigation state
//	DELETE /api/sessions/{id}                     drop the session
//	GET    /api/sessions/{id}/layout              flat layout of the shown root
//	GET    /api/sessions/{id}/svg                 SVG of the shown root
//	POST   /api/sessions/{id}/zoom/in/{nodeID}    zoom into a node
//	POST   /api/sessions/{id}/zoom/out            zoom out one level
//	POST   /api/sessions/{id}/zoom/full           back to the true root
//	POST   /api/sessions/{id}/select/{nodeID}     select a node
//	DELETE /api/sessions/{id}/select              clear the selection
//	PUT    /api/sessions/{id}/viewport            {"width":..,"height":..}
//	GET    /healthz
//
// Navigation responses carry the observer events raised by the call.
//
// [zoom.Navigator]: github.com/matzehuels/treemap/pkg/core/zoom.Navigator
package server
