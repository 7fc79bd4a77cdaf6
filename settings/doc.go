// Package settings validates the user-edited engine configuration.
//
// The Pipeline parses the settings document with the active engine on every
// edit. Validity is tracked immediately (the commit action is enabled or
// disabled on the spot) while the error annotation appears only after a
// debounce interval, so a user in the middle of typing is not flooded with
// markers. When the active engine changes, Reconcile comments out the keys
// the new version does not recognize and restores the ones it does:
//
//	max_line_len = 80                 max_line_len = 80
//	tab_width = 4          0.5->0.4   #(unavailable)tab_width = 4
package settings
