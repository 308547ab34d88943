package memory

import (
	"fmt"
	"strconv"
)

// stringify mirrors how Redis flattens hash values: everything is stored as
// its string form.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
