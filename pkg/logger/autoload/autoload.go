// Package autoload configures the global logger from LOG_* environment
// variables on import. main imports it blank so logging is ready before any
// other package runs.
package autoload

import (
	"os"

	logx "github.com/imobiflow/imobiflow/pkg/logger"
)

func init() {
	logx.Init(logx.Config{
		Debug:        os.Getenv("LOG_DEBUG") == "true",
		PrettyFormat: os.Getenv("LOG_PRETTY_FORMAT") == "true",
	})
}
