package policy

// #region imports
import (
	"errors"
	"fmt"

	"github.com/JoelJaison394/Minecraft-Agent/internal/action"
)

// #endregion

// #region extract

// ErrNoAction means the advisor's reply contained no schema-valid action.
var ErrNoAction = errors.New("policy: no parseable action in reply")

// ExtractAction pulls the first schema-valid action object out of free-form
// advisor text. Candidate substrings are balanced JSON objects; each is tried
// in order until one validates, so prose, markdown fences, and malformed
// near-misses around the action are all tolerated.
func ExtractAction(text string) (action.Action, error) {
	var lastErr error
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		candidate := balancedObject(text[i:])
		if candidate == "" {
			continue
		}
		a, err := action.Decode([]byte(candidate))
		if err == nil {
			return a, nil
		}
		lastErr = err
		// Keep scanning inside the failed candidate: replies often wrap the
		// action object in an envelope ({"thoughts": ..., "action": {...}}).
	}
	if lastErr != nil {
		return action.Action{}, fmt.Errorf("%w: %v", ErrNoAction, lastErr)
	}
	return action.Action{}, ErrNoAction
}

// balancedObject returns the shortest balanced {...} prefix of s, or "" when
// braces never balance. String literals and escapes are respected so braces
// inside values do not miscount.
func balancedObject(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

// #endregion
