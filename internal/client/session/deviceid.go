package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const deviceIDPrefix = "customer_web_"

// NewDeviceID mints the identifier that ties an OTP request to its
// verification: prefix, unix milliseconds and a nine character random tail.
func NewDeviceID(now time.Time) string {
	tail := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s%d_%s", deviceIDPrefix, now.UnixMilli(), tail)
}
