package attachment

import humanize "github.com/dustin/go-humanize"

// FormatSize renders a byte count for display, e.g. "1.5 MiB".
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// ParseSize parses a human byte size such as "25MiB" or "10 MB".
func ParseSize(raw string) (int64, error) {
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
