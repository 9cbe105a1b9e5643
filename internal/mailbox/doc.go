// Package mailbox provides the single-slot message cell shared between OS
// signal delivery and the popup's UI loop. Writes overwrite, they never queue:
// the cell always holds the latest intent.
package mailbox
