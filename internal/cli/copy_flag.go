package cli

import (
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/snapshot/internal/services/clipboard"
)

// registerCopyFlag adds --copy. It accepts an optional boolean literal and defaults to false.
func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	registerBooleanFlag(flagSet, target, copyFlagName, false, copyFlagDescription)
}

// copyDocument places document on the clipboard. A failure is logged and never fails the run.
func copyDocument(copier clipboard.Copier, logger *zap.Logger, document string) bool {
	if copier == nil {
		return false
	}
	if copyError := copier.Copy(document); copyError != nil {
		logger.Warn(warningClipboardCopyMessage, zap.Error(copyError))
		return false
	}
	return true
}
