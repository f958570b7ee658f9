// Package roster imports class rosters from spreadsheets and html
// tables and exports gradebooks to spreadsheets.
package roster

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrybrwn/gradebook/internal/store"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrFormat is returned for files that are not a known roster format.
var ErrFormat = errors.New("unknown roster format")

// Adder enrolls students in a class.
type Adder interface {
	AddStudent(ctx context.Context, classID string, st store.Student) error
}

// Import reads a roster file and enrolls every student in it. The
// file type is chosen by extension: ".xlsx" spreadsheets or ".html"
// pages with a table. It returns the number of students enrolled.
func Import(ctx context.Context, db Adder, classID, filename string) (int, error) {
	var parse func(io.Reader) ([][]string, error)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		parse = xlsxRows
	case ".html", ".htm":
		parse = htmlRows
	default:
		return 0, errors.Wrap(ErrFormat, filename)
	}
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	rows, err := parse(f)
	if err != nil {
		return 0, errors.Wrapf(err, "could not read %s", filename)
	}
	students, err := Students(rows)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, st := range students {
		if err = db.AddStudent(ctx, classID, st); err != nil {
			log.WithFields(log.Fields{
				"class":   classID,
				"student": st.ID,
			}).WithError(err).Warn("could not import student")
			continue
		}
		n++
	}
	log.WithFields(log.Fields{"class": classID, "file": filename}).Infof("imported %d students", n)
	return n, nil
}

// Students turns table rows into students. The first row is a
// header naming the columns; when it does not name an id and a
// name column the first two columns are used as the id and name.
// Rows without an id or a name are skipped and students without
// a username get their id as a username.
func Students(rows [][]string) ([]store.Student, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	keys := columnKeys(rows[0])
	students := make([]store.Student, 0, len(rows)-1)
	for i, row := range rows[1:] {
		m := make(map[string]interface{}, len(keys))
		for j, cell := range row {
			if j < len(keys) && keys[j] != "" {
				m[keys[j]] = strings.TrimSpace(cell)
			}
		}
		var st store.Student
		if err := decode(m, &st); err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
		if st.ID == "" || st.Name == "" {
			log.WithField("row", i+2).Debug("skipping roster row with no id or name")
			continue
		}
		if st.Username == "" {
			st.Username = st.ID
		}
		students = append(students, st)
	}
	return students, nil
}

func decode(m map[string]interface{}, st *store.Student) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "roster",
		WeaklyTypedInput: true,
		Result:           st,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

var headerNames = map[string]string{
	"id":         "id",
	"student id": "id",
	"studentid":  "id",
	"sid":        "id",
	"username":   "username",
	"user":       "username",
	"login":      "username",
	"name":       "name",
	"full name":  "name",
	"student":    "name",
}

func columnKeys(header []string) []string {
	keys := make([]string, len(header))
	var hasID, hasName bool
	for i, h := range header {
		k := headerNames[strings.ToLower(strings.TrimSpace(h))]
		keys[i] = k
		hasID = hasID || k == "id"
		hasName = hasName || k == "name"
	}
	if hasID && hasName {
		return keys
	}
	return []string{"id", "name"}
}
