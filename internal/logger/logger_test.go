/*
Copyright 2026 Cascata Contributors. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package logger_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/tessellary/cascata/internal/logger"
)

func TestSetOutput(t *testing.T) {
	defer logger.SetOutput(os.Stderr)

	var buf bytes.Buffer
	logger.SetOutput(&buf)

	logger.Warn("something %s", "odd")
	logger.Info("built %d files", 3)

	out := buf.String()
	if !strings.Contains(out, "warning: something odd") {
		t.Errorf("warning not prefixed: %q", out)
	}
	if !strings.Contains(out, "built 3 files") {
		t.Errorf("info message missing: %q", out)
	}

	logger.SetOutput(io.Discard)
	before := buf.Len()
	logger.Warn("silenced")
	if buf.Len() != before {
		t.Error("discarded output still reached the previous writer")
	}
}
