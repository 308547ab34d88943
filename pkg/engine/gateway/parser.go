package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ship-computer-be/internal/constant"
	"ship-computer-be/pkg/engine"
)

// Parse recovers a structured result from raw model output. Three stages,
// each only reached when the previous one fails:
//
//  1. Direct JSON parse of the whole output.
//  2. Span parse of the outermost first-'{' ... last-'}' slice (models
//     love to wrap their JSON in prose and code fences).
//  3. The raw output itself, code-fence markers stripped, becomes the
//     spoken response with no updates.
//
// A parsed value that is not an object is coerced to a response-only
// result. Missing "response" defaults to the fixed completion string,
// missing "updates" to empty. The only hard failure is an updates value
// that cannot be read as an integer.
func Parse(raw string) (*engine.Result, error) {
	trimmed := strings.TrimSpace(raw)

	// 1. Direct parse
	var value interface{}
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return coerce(value)
	}

	// 2. Outermost span extraction
	first := strings.Index(trimmed, "{")
	last := strings.LastIndex(trimmed, "}")
	if first >= 0 && last > first {
		span := trimmed[first : last+1]
		if err := json.Unmarshal([]byte(span), &value); err == nil {
			return coerce(value)
		}
	}

	// 3. Raw text fallback
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	res := engine.NewResult(strings.TrimSpace(clean))
	return res, nil
}

func coerce(value interface{}) (*engine.Result, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		// A list or scalar is still a legitimate answer; stringify it.
		return engine.NewResult(fmt.Sprintf("%v", value)), nil
	}

	res := engine.NewResult(constant.ResponseCompletion)

	if v, ok := obj["response"]; ok {
		if s, ok := v.(string); ok {
			res.Response = s
		} else {
			res.Response = fmt.Sprintf("%v", v)
		}
	}

	if v, ok := obj["updates"]; ok {
		updates, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: updates is not an object", ErrMalformed)
		}
		for system, rawValue := range updates {
			// rank_up is server-injected only; a model emitting it is
			// ignored rather than trusted.
			if system == "rank_up" {
				continue
			}
			n, err := toInt(rawValue)
			if err != nil {
				return nil, fmt.Errorf("%w: updates[%s]: %v", ErrMalformed, system, err)
			}
			res.Updates[system] = n
		}
	}

	if v, ok := obj["mission_success"]; ok {
		if b, ok := v.(bool); ok {
			res.MissionSuccess = b
		}
	}

	return res, nil
}

func toInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", val)
		}
		return n, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", v)
	}
}
