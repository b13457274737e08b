/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package logger keeps a bounded, tagged log of emulator events. A central
// instance is available through the package level functions so the virtual
// machine, the front ends and the tools can all write to the same place.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Entry is a single line of the log.
type Entry struct {
	// Tag names the part of the emulator that logged the entry.
	Tag string

	// Detail is the text of the entry.
	Detail string

	// Repeated counts how many times the same entry was logged in a row.
	Repeated int
}

// String formats the entry as a single line (without a newline).
func (e Entry) String() string {
	if e.Repeated > 0 {
		return fmt.Sprintf("%s: %s (repeat x%d)", e.Tag, e.Detail, e.Repeated+1)
	}
	return fmt.Sprintf("%s: %s", e.Tag, e.Detail)
}

// Logger is a bounded output log that is safe for concurrent use.
type Logger struct {
	mu sync.Mutex

	// buf contains each logged entry, oldest first.
	buf []Entry

	// max is the number of entries kept before the oldest are dropped.
	max int

	// echo receives a copy of every new line when not nil.
	echo io.Writer
}

// NewLog creates a new Logger holding at most max entries.
func NewLog(max int) *Logger {
	if max < 1 {
		max = 1
	}

	return &Logger{
		buf: make([]Entry, 0, 100),
		max: max,
	}
}

// SetEcho sets a writer that receives every new line. Pass nil to stop.
func (log *Logger) SetEcho(w io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.echo = w
}

// Log outputs a new entry to the log.
func (log *Logger) Log(tag, detail string) {
	log.mu.Lock()
	defer log.mu.Unlock()

	// entries are single lines
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", " ")

	// collapse repeats of the previous entry
	if n := len(log.buf); n > 0 && log.buf[n-1].Tag == tag && log.buf[n-1].Detail == detail {
		log.buf[n-1].Repeated++
	} else {
		log.buf = append(log.buf, Entry{Tag: tag, Detail: detail})
	}

	// drop the oldest entries
	if len(log.buf) > log.max {
		log.buf = append(log.buf[:0], log.buf[len(log.buf)-log.max:]...)
	}

	if log.echo != nil {
		io.WriteString(log.echo, log.buf[len(log.buf)-1].String()+"\n")
	}
}

// Logf formats and outputs a new entry to the log.
func (log *Logger) Logf(tag, format string, args ...interface{}) {
	log.Log(tag, fmt.Sprintf(format, args...))
}

// Window returns the last n lines logged.
func (log *Logger) Window(n int) []string {
	log.mu.Lock()
	defer log.mu.Unlock()

	start := len(log.buf) - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(log.buf)-start)
	for _, e := range log.buf[start:] {
		lines = append(lines, e.String())
	}

	return lines
}

// Entries returns a copy of every entry in the log.
func (log *Logger) Entries() []Entry {
	log.mu.Lock()
	defer log.mu.Unlock()

	c := make([]Entry, len(log.buf))
	copy(c, log.buf)

	return c
}

// Write outputs every line of the log to w.
func (log *Logger) Write(w io.Writer) error {
	for _, s := range log.Window(log.max) {
		if _, err := io.WriteString(w, s+"\n"); err != nil {
			return err
		}
	}

	return nil
}

// Clear empties the log.
func (log *Logger) Clear() {
	log.mu.Lock()
	defer log.mu.Unlock()

	log.buf = log.buf[:0]
}
