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

package logger

import (
	"io"
)

// maximum number of entries kept by the central logger.
const maxCentral = 256

var central = NewLog(maxCentral)

// Log adds an entry to the central logger.
func Log(tag, detail string) {
	central.Log(tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(tag, format string, args ...interface{}) {
	central.Logf(tag, format, args...)
}

// SetEcho echoes every new central log entry to w. Pass nil to stop.
func SetEcho(w io.Writer) {
	central.SetEcho(w)
}

// Tail writes the last n central log lines to w.
func Tail(w io.Writer, n int) error {
	for _, s := range central.Window(n) {
		if _, err := io.WriteString(w, s+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns a copy of the central log.
func Entries() []Entry {
	return central.Entries()
}

// Clear empties the central log.
func Clear() {
	central.Clear()
}
