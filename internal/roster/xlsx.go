package roster

import (
	"context"
	"io"
	"strings"

	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/gradebook/internal/store"
	"github.com/harrybrwn/gradebook/pkg/grade"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

func xlsxRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("could not close spreadsheet")
		}
	}()
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errs.New("spreadsheet does not have any sheets")
	}
	return f.GetRows(sheet)
}

// Gradebook is the data needed to export a class gradebook.
type Gradebook interface {
	grade.Source
	Students(ctx context.Context, classID string) ([]store.Student, error)
	Assignments(ctx context.Context, classID string) ([]store.Assignment, error)
	StudentGrades(ctx context.Context, classID, studentID string) ([]store.Score, error)
}

// Export writes a class gradebook to a spreadsheet with one row per
// student, one column per assignment and a final column holding the
// student's weighted percentage. Ungraded assignments are left blank.
func Export(ctx context.Context, db Gradebook, classID, filename string) (err error) {
	assignments, err := db.Assignments(ctx, classID)
	if err != nil {
		return err
	}
	students, err := db.Students(ctx, classID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		err = errs.Chain(err, f.Close())
	}()
	sheet := sheetName(classID)
	if err = f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	column := make(map[string]int, len(assignments))
	header := []interface{}{"id", "name"}
	for i, a := range assignments {
		column[a.Name] = i + 2
		header = append(header, a.Name)
	}
	header = append(header, "total")
	if err = f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, st := range students {
		scores, err := db.StudentGrades(ctx, classID, st.ID)
		if err != nil {
			return err
		}
		total, err := grade.Report(ctx, db, classID, st.ID)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(header))
		row[0], row[1] = st.ID, st.Name
		for _, sc := range scores {
			if col, ok := column[sc.Assignment]; ok {
				row[col] = sc.Score
			}
		}
		row[len(row)-1] = total
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err = f.SaveAs(filename); err != nil {
		return errors.Wrapf(err, "could not save %s", filename)
	}
	log.WithFields(log.Fields{"class": classID, "file": filename}).Info("exported gradebook")
	return nil
}

// sheet names can't have some characters and are
// limited to 31 characters
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	if name == "" {
		name = "gradebook"
	}
	return name
}
