package booking

import (
	"strconv"
	"strings"
	"time"
)

const CodePrefix = "MP"

// NewCode builds the human-readable booking code guests quote on the phone
// and in their bank transfer memo.
func NewCode(now time.Time) string {
	return CodePrefix + strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
}
