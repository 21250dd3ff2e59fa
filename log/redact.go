package log

import "strings"

const mask = "******"

// secretFlags take the secret as the following argument
var secretFlags = map[string]bool{
	"--password": true,
	"-gp":        true,
	"-vp":        true,
}

// RedactArgs returns a copy of args with secret values masked, for
// logging command lines.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		a := out[i]
		if secretFlags[a] && i+1 < len(out) {
			out[i+1] = mask
			i++
			continue
		}
		if k, _, ok := strings.Cut(a, "="); ok && secretFlags[k] {
			out[i] = k + "=" + mask
		}
	}
	return out
}
