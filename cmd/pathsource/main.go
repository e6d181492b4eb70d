package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"pathsource/internal/styles"
)

var BUILD_VERSION = "dev"

func main() {
	rootCmd := NewRootCmd()

	err := rootCmd.Execute()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		if logger != nil {
			logger.Error("unhandled error", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}
}
