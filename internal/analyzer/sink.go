package analyzer

import (
	"fmt"
	"io"
)

// destinationClass separates console destinations from file-class ones.
// The content section is appended to file-class destinations only.
type destinationClass int

const (
	classConsole destinationClass = iota
	classFile
)

type destination struct {
	writer io.Writer
	class  destinationClass
}

// Sink fans rendered output out to zero or more attached destinations, so the
// renderer writes each line exactly once no matter how many are active.
type Sink struct {
	destinations []destination
}

// NewSink returns a sink with no destinations attached. A sink without
// destinations is valid; writes become no-ops.
func NewSink() *Sink {
	return &Sink{}
}

// AttachConsole adds a console-class destination. Console destinations receive
// the tree section but never the content section.
func (sink *Sink) AttachConsole(writer io.Writer) *Sink {
	sink.destinations = append(sink.destinations, destination{writer: writer, class: classConsole})
	return sink
}

// AttachFile adds a file-class destination, which additionally receives the
// content section.
func (sink *Sink) AttachFile(writer io.Writer) *Sink {
	sink.destinations = append(sink.destinations, destination{writer: writer, class: classFile})
	return sink
}

// HasFileDestination reports whether at least one file-class destination is attached.
func (sink *Sink) HasFileDestination() bool {
	for _, attached := range sink.destinations {
		if attached.class == classFile {
			return true
		}
	}
	return false
}

// WriteLine writes text followed by a newline to every destination.
func (sink *Sink) WriteLine(text string) {
	for _, attached := range sink.destinations {
		fmt.Fprintln(attached.writer, text)
	}
}

// writeFileLine writes text followed by a newline to file-class destinations only.
func (sink *Sink) writeFileLine(text string) {
	for _, attached := range sink.destinations {
		if attached.class == classFile {
			fmt.Fprintln(attached.writer, text)
		}
	}
}

// writeFileString writes text verbatim to file-class destinations only.
func (sink *Sink) writeFileString(text string) {
	for _, attached := range sink.destinations {
		if attached.class == classFile {
			io.WriteString(attached.writer, text)
		}
	}
}
