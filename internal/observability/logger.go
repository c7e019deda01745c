package observability

import (
	"io"
	"os"

	"github.com/danmuck/ctagd/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs the runtime logger tagged with app. Passing a nil
// writer selects stderr; stdout is reserved for the protocol stream.
func InitLogger(app string, w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := logging.ConfigureRuntime(w, level).With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
