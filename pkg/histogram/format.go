package histogram

import "fmt"

const (
	kilo = 1000
	mega = 1000 * 1000
)

// FormatSize renders a byte count with two decimals and a decimal unit:
// "512.00 Bytes", "1.50 KBytes", "2.25 MBytes".
func FormatSize(v float64) string {
	unit := "Bytes"
	switch {
	case v >= mega:
		v /= mega
		unit = "MBytes"
	case v >= kilo:
		v /= kilo
		unit = "KBytes"
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}
