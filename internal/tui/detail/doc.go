// Package detail renders the profile detail pane for a selected list member.
//
// The bio is treated as markdown and rendered with glamour at the current
// terminal width. Rendering failures fall back to the raw text so the pane
// never blocks navigation.
package detail
