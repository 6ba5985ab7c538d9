// assets/embed.go
//
// Files compiled into the binary:
//   - titles.txt: seed title list for the multiple-choice distractor pool.
//   - migrations/*.sql: golang-migrate schema for the sqlite database.

package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed titles.txt
var titlesFS embed.FS

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the schema migrations rooted at the migrations directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

// Titles returns the embedded seed titles.
func Titles() ([]string, error) {
	f, err := titlesFS.Open("titles.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines returns the non-blank lines of r, skipping # comments.
// Case is preserved: titles are shown to players verbatim.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}
