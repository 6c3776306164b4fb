package display

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// NewSpinner creates a spinner with the given status message. The caller
// owns Start and Stop.
func NewSpinner(msg string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + msg
	return s
}

// ShowNotice prints a one-line status message, for flow events like the
// login recovery kicking in.
func ShowNotice(msg string) {
	fmt.Println(msg)
}
