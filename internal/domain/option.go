package domain

// Option is a keyed, labelled choice. Slices of options keep display order.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func Lookup(opts []Option, key string) (Option, bool) {
	for _, o := range opts {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// MaxNameLength bounds user supplied names, in characters.
const MaxNameLength = 100
