package share

import (
	"github.com/atotto/clipboard"

	"github.com/wippyai/fmt-playground/errors"
)

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteText copies text to the clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.Unsupported(errors.PhaseShare, "no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.Unavailable(errors.PhaseShare, "clipboard", err)
	}
	return nil
}
