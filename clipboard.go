package main

import (
	"golang.design/x/clipboard"

	"github.com/milk9111/sandbox3d/logging"
)

// systemClipboard writes text to the OS clipboard when one is available.
type systemClipboard struct {
	ok bool
}

func newSystemClipboard(logger logging.Logger) *systemClipboard {
	if err := clipboard.Init(); err != nil {
		logging.OrDiscard(logger).Printf("clipboard: unavailable: %v", err)
		return &systemClipboard{}
	}
	return &systemClipboard{ok: true}
}

func (c *systemClipboard) WriteText(s string) bool {
	if c == nil || !c.ok {
		return false
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
	return true
}
