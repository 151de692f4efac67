package experiment

import (
	"fmt"
	"math"
	"time"
)

// CompletionCode formats the code a participant copies into the survey:
// "{participantID}-{elapsed seconds, rounded half away from zero}-{items}".
func CompletionCode(participantID string, elapsed time.Duration, totalItems int) string {
	seconds := int64(math.Round(elapsed.Seconds()))
	return fmt.Sprintf("%s-%d-%d", participantID, seconds, totalItems)
}
