// Package listview provides a windowed list for Bubble Tea views.
//
// Only rows inside the viewport plus a small buffer are rendered, so a list
// that grows page by page stays cheap to draw. Items can be replaced in place
// as new pages arrive without losing the selection.
package listview
