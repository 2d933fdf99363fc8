package convert

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Cleanup removes the input file of a successful run.
func Cleanup(log zerolog.Logger, inputPath string) error {
	start := time.Now()

	if err := os.Remove(inputPath); err != nil {
		return fmt.Errorf("remove input: %w", err)
	}

	log.Info().
		Str("file", inputPath).
		Dur("duration", time.Since(start)).
		Msg("input cleanup complete")

	return nil
}
