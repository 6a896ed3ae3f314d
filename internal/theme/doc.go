// Package theme maps named highlight scopes to segment classes.
//
// A theme is loaded from a TOML file that assigns a class number to each
// scope name. Classified runs produced by a highlighter are written into a
// segment map through Apply, so downstream consumers only ever see class
// numbers. A Watcher reloads the theme file on change with debouncing, for
// live-editing theme files without restarting.
package theme
