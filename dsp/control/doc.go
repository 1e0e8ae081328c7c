// Package control carries parameter changes from a control goroutine (UI,
// host, network) to the goroutine that runs Process.
//
// The producer calls [Queue.Send], which never blocks. The audio goroutine
// calls [Queue.Drain] between blocks, so a change always lands on a block
// boundary and never inside one.
package control
