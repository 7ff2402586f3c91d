// Copyright (c) the Warren authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package warren

import (
	"io"
	"log"
)

// logger wraps the user-supplied debug writer. When no writer is supplied
// everything goes to io.Discard, so call sites never nil-check.
type logger struct {
	trace *log.Logger
	debug *log.Logger
	warn  *log.Logger
}

func newLogger(w io.Writer) *logger {
	if w == nil {
		w = io.Discard
	}

	return &logger{
		trace: log.New(w, "trace:", log.Ltime|log.Lshortfile),
		debug: log.New(w, "debug:", log.Ltime|log.Lshortfile),
		warn:  log.New(w, "warn:", log.Ltime|log.Lshortfile),
	}
}
