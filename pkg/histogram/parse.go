package histogram

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/treemap/pkg/errors"
)

// Parse reads a histogram in either the comma-separated or the jmap -histo
// format. Records for the same class are merged.
func Parse(r io.Reader) (*Histogram, error) {
	h := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if skipLine(text) {
			continue
		}

		var (
			rec Record
			err error
		)
		if strings.Contains(text, ",") {
			rec, err = parseCSV(text)
		} else {
			rec, err = parseJmap(text)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "histogram line %d", line)
		}
		h.Put(rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read histogram")
	}
	return h, nil
}

func skipLine(text string) bool {
	switch {
	case text == "", strings.HasPrefix(text, "#"):
		return true
	case strings.HasPrefix(text, "num "), strings.HasPrefix(text, "-"):
		return true // jmap header
	case strings.HasPrefix(text, "Total "):
		return true // jmap footer
	}
	return false
}

func parseCSV(text string) (Record, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return Record{}, errors.New(errors.ErrCodeInvalidFormat, "want 3 comma-separated fields, got %d", len(parts))
	}
	return record(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
}

func parseJmap(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 || !strings.HasSuffix(fields[0], ":") {
		return Record{}, errors.New(errors.ErrCodeInvalidFormat, "unrecognized line %q", text)
	}
	// Newer JDKs append the module, e.g. "(java.base@17)".
	return record(fields[3], fields[1], fields[2])
}

func record(name, instances, size string) (Record, error) {
	if name == "" {
		return Record{}, errors.New(errors.ErrCodeInvalidFormat, "empty class name")
	}
	n, err := strconv.ParseInt(instances, 10, 64)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "instances")
	}
	s, err := strconv.ParseInt(size, 10, 64)
	if err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "total size")
	}
	if n < 0 || s < 0 {
		return Record{}, errors.New(errors.ErrCodeInvalidFormat, "negative count for %s", name)
	}
	return Record{ClassName: name, Instances: n, TotalSize: s}, nil
}
