// Package playground wires the playground components into a controller.
//
// The Controller owns the three documents (original, formatted, settings),
// the settings and format pipelines, the surface coordinator and the share
// codec, and reacts to host elements through ui.Host subscriptions.
//
// Every handler runs to completion on one goroutine. With a Dispatcher,
// such as a Loop, engine loads and sample fetches run in the background and
// post their results back through it; debounced settings annotations are
// posted the same way. Without one, loads and fetches run synchronously
// inside the handler that started them and the debounced annotation is
// applied from the timer, touching only the settings document. Handlers
// take one snapshot of the active engine and use it to completion.
//
// Startup (Start) decodes shared state from the location, fetches the
// version list, loads the shared or default version, fills the settings and
// the original source, and runs the first format.
package playground
