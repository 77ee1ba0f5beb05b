// Package server provides HTTP routing, middleware, and JSON handlers over the curated list.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so wildcards such as
// /movies/{id} are read with [http.Request.PathValue].
//
// # Routes
//
//	GET    /movies           current view; ?genre= filters the response only
//	POST   /movies           add a movie by catalog id
//	PUT    /movies/filter    replace the list's genre filter
//	POST   /movies/reorder   move one movie next to another ({moved, target})
//	POST   /movies/save-all  send the current view to the backend
//	GET    /movies/{id}
//	PUT    /movies/{id}      edit
//	DELETE /movies/{id}
//	GET    /status           dispatcher and list status
//
// Reorder and delete succeed locally even when the backend rejects them; the failure is logged.
package server
