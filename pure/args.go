package pure

import (
	"strings"
)

// ArgsKey builds a memoization key from a call's positional and keyword
// arguments. Keyword arguments are compared by name, so their order does not
// matter.
func ArgsKey(args []any, kwargs map[string]any) (Key, error) {
	var b strings.Builder
	b.WriteByte('a')
	if err := writeList(&b, len(args), func(i int) any { return args[i] }); err != nil {
		return "", err
	}
	if len(kwargs) > 0 {
		b.WriteByte('k')
		if err := encode(&b, kwargs); err != nil {
			return "", err
		}
	}
	return Key(b.String()), nil
}
