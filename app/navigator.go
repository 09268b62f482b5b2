package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/paramset/paramset/internal/fault"
)

// consoleNavigator prints the next step of the user. The error itself is
// printed by cobra, NotifyError only adds a hint.
type consoleNavigator struct {
	out io.Writer
	err io.Writer
}

func (n consoleNavigator) ShowDetails(configID uint64) {
	fmt.Fprintf(n.out, "show with: paramset config show %d\n", configID)
}

func (n consoleNavigator) ShowKeyValueDetails(configID uint64, keyValueID *uint64) {
	if keyValueID == nil {
		fmt.Fprintf(n.out, "add values with: paramset kv set %d KEY VALUE\n", configID)
		return
	}

	fmt.Fprintf(n.out, "edit with: paramset kv set %d KEY VALUE --id %d\n", configID, *keyValueID)
}

func (n consoleNavigator) NotifyError(err error) {
	if errors.Is(err, fault.ErrNotFound) {
		fmt.Fprintln(n.err, "hint: it may have been deleted, list configs with: paramset config list")
	}
}
