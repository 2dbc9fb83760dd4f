package diag

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FileTranslator loads a flat "kind=format" table from a LANG file, one
// entry per line, '#' comments allowed, blank lines ignored. This mirrors
// the original EdPy project's TranStrings.py table shape: a numbered kind on
// the left, a localisable format string using %v-style placeholders on the
// right.
type FileTranslator struct {
	table map[Kind]string
}

// LoadTranslator reads path and builds a FileTranslator. It never returns an
// error for a missing table entry — Format falls back to a stable default so
// a partially-translated LANG file still produces useful output.
func LoadTranslator(path string) (*FileTranslator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &FileTranslator{table: make(map[Kind]string)}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, '=')
		if idx < 0 {
			continue
		}
		k, err := strconv.Atoi(strings.TrimSpace(line[:idx]))
		if err != nil {
			continue
		}
		t.table[Kind(k)] = strings.TrimSpace(line[idx+1:])
	}
	return t, sc.Err()
}

func (t *FileTranslator) Format(k Kind, args []any) string {
	if tmpl, ok := t.table[k]; ok {
		return fmt.Sprintf(tmpl, args...)
	}
	return fmt.Sprintf("TS.%d %v", k, args)
}
