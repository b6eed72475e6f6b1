package endpoint

import (
	"fmt"
	"time"
)

// dateLayout is the YYYY-MM-DD format used by every date query parameter and
// absence record.
const dateLayout = "2006-01-02"

// validateDate checks that value is a well-formed YYYY-MM-DD date.
func validateDate(value string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return nil
}

// today returns the current date in the wire format. Endpoints fall back to
// it when the caller omits the date parameter.
func today() string {
	return time.Now().Format(dateLayout)
}
