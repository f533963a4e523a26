package validateargs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAllowed is returned when a secret is passed as a command line argument
var ErrNotAllowed = errors.New("should not be passed as a command line argument, use the config file or environment instead")

// notAllowedArgs hold secrets that would otherwise show up in process lists
var notAllowedArgs = []string{"cookie-secret", "sentry-dsn"}

// NotAllowed checks if explicitly not allowed params have been used
func NotAllowed(args []string) error {
	var foundNotAllowedArgs []string

	for _, notAllowedArg := range notAllowedArgs {
		for _, arg := range args {
			if isFlag(arg, notAllowedArg) {
				foundNotAllowedArgs = append(foundNotAllowedArgs, "-"+notAllowedArg)
				break
			}
		}
	}

	if len(foundNotAllowedArgs) > 0 {
		return fmt.Errorf("%s %w", strings.Join(foundNotAllowedArgs, ", "), ErrNotAllowed)
	}

	return nil
}

// isFlag matches -name, --name, -name=value and --name=value
func isFlag(arg, name string) bool {
	if !strings.HasPrefix(arg, "-") {
		return false
	}

	arg = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")

	return arg == name || strings.HasPrefix(arg, name+"=")
}
