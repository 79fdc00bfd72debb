// Package ui is the terminal front-end of the alarm toggle: it renders the
// button label and the position fields as rewritten lines and turns input
// lines into button presses.
package ui
