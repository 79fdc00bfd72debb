// Package sunrise contains the value types of the sunrise computation:
// the geographic Position fix and the weather Sample with its next-sunrise
// instant, including the future-shift rule and the button label formats.
package sunrise
