package main

import (
	"errors"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errCloneIncomplete) {
			os.Exit(1)
		}

		exitOnError(err)
	}
}
