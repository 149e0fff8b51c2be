package expr

import (
	"strings"

	"shockcore/datum"
)

// Interpolate replaces every `{expr}` fragment in msg with the stringified
// result of evaluating expr against env. A fragment that fails to parse
// or evaluate is replaced with `<error message>` rather than aborting the
// whole message; a log point must never pause or crash the tick.
func Interpolate(msg string, env *Env) string {
	var sb strings.Builder
	i := 0
	for i < len(msg) {
		open := strings.IndexByte(msg[i:], '{')
		if open < 0 {
			sb.WriteString(msg[i:])
			break
		}
		open += i
		sb.WriteString(msg[i:open])
		close := strings.IndexByte(msg[open:], '}')
		if close < 0 {
			sb.WriteString(msg[open:])
			break
		}
		close += open
		fragment := msg[open+1 : close]
		v, err := Eval(fragment, env)
		if err != nil {
			sb.WriteString("<" + err.Error() + ">")
		} else {
			sb.WriteString(valueString(v))
		}
		i = close + 1
	}
	return sb.String()
}

func valueString(v datum.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
