package roster

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/harrybrwn/gradebook/internal/store"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

func testStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "roster.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	id, err := s.CreateClass(context.Background(), store.Class{
		CourseNumber: "BIO1", Term: "spring", Section: "02", Description: "Biology",
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, id
}

func TestStudents(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		exp  []store.Student
	}{
		{
			name: "header",
			rows: [][]string{
				{"Name", "Student ID", "Username"},
				{"Alice Smith", "s1", "alice"},
				{" Bob Jones ", "s2", ""},
			},
			exp: []store.Student{
				{ID: "s1", Username: "alice", Name: "Alice Smith"},
				{ID: "s2", Username: "s2", Name: "Bob Jones"},
			},
		},
		{
			name: "positional",
			rows: [][]string{
				{"ID", "Full Student Name"},
				{"1001", "Carol"},
				{"1002"},
				{"", "Nobody"},
				{"1003", "Dan", "ignored"},
			},
			exp: []store.Student{
				{ID: "1001", Username: "1001", Name: "Carol"},
				{ID: "1003", Username: "1003", Name: "Dan"},
			},
		},
		{name: "header only", rows: [][]string{{"id", "name"}}, exp: []store.Student{}},
		{name: "empty", rows: nil, exp: nil},
	}
	for _, tt := range tests {
		students, err := Students(tt.rows)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if len(students) != len(tt.exp) {
			t.Errorf("%s: got %d students, want %d", tt.name, len(students), len(tt.exp))
			continue
		}
		for i := range students {
			if students[i] != tt.exp[i] {
				t.Errorf("%s: got %+v, want %+v", tt.name, students[i], tt.exp[i])
			}
		}
	}
}

func TestImport_XLSX(t *testing.T) {
	db, classID := testStore(t)
	filename := filepath.Join(t.TempDir(), "roster.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"id", "name", "username"},
		{"s1", "Alice Smith", "alice"},
		{"s2", "Bob Jones", "bob"},
		{"", "Missing Id", "x"},
		{1003, "Carol", ""},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err = f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(filename); err != nil {
		t.Fatal(err)
	}
	f.Close()

	ctx := context.Background()
	n, err := Import(ctx, db, classID, filename)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("imported %d students, want 3", n)
	}
	students, err := db.Students(ctx, classID)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 3 {
		t.Fatalf("got %d students, want 3", len(students))
	}
	if students[0] != (store.Student{ID: "1003", Username: "1003", Name: "Carol"}) {
		t.Errorf("wrong student: %+v", students[0])
	}
}

const rosterHTML = `<html><body>
<h1>Class Roster</h1>
<table>
  <tr><th>Student ID</th><th>Name</th><th>Login</th></tr>
  <tr><td>s1</td><td>Alice Smith</td><td>alice</td></tr>
  <tr><td>
     s2
  </td><td>Bob Jones</td><td>bob&nbsp;</td></tr>
</table>
<table><tr><td>not</td><td>this one</td></tr></table>
</body></html>`

func TestImport_HTML(t *testing.T) {
	db, classID := testStore(t)
	filename := filepath.Join(t.TempDir(), "roster.html")
	if err := os.WriteFile(filename, []byte(rosterHTML), 0644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	n, err := Import(ctx, db, classID, filename)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("imported %d students, want 2", n)
	}
	students, err := db.Students(ctx, classID)
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 2 || students[1] != (store.Student{ID: "s2", Username: "bob", Name: "Bob Jones"}) {
		t.Errorf("wrong students: %+v", students)
	}
}

func TestImport_Errors(t *testing.T) {
	db, classID := testStore(t)
	ctx := context.Background()
	_, err := Import(ctx, db, classID, "roster.csv")
	if !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
	if _, err = Import(ctx, db, classID, filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Error("expected an error for a missing file")
	}
	filename := filepath.Join(t.TempDir(), "empty.html")
	if err = os.WriteFile(filename, []byte("<p>no table</p>"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err = Import(ctx, db, classID, filename); err == nil {
		t.Error("expected an error for html without a table")
	}
}

func TestExport(t *testing.T) {
	db, classID := testStore(t)
	ctx := context.Background()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(db.AddCategory(ctx, classID, "Homework", 50))
	must(db.AddCategory(ctx, classID, "Exams", 50))
	must(db.AddAssignment(ctx, classID, store.Assignment{Name: "hw1", Points: 10, Category: "Homework"}))
	must(db.AddAssignment(ctx, classID, store.Assignment{Name: "midterm", Points: 20, Category: "Exams"}))
	must(db.AddStudent(ctx, classID, store.Student{ID: "s1", Username: "alice", Name: "Alice"}))
	must(db.AddStudent(ctx, classID, store.Student{ID: "s2", Username: "bob", Name: "Bob"}))
	must(db.RecordGrade(ctx, classID, "s1", "hw1", 8))
	must(db.RecordGrade(ctx, classID, "s1", "midterm", 18))
	must(db.RecordGrade(ctx, classID, "s2", "midterm", 10))

	filename := filepath.Join(t.TempDir(), "gradebook.xlsx")
	must(Export(ctx, db, classID, filename))

	f, err := excelize.OpenFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if name := f.GetSheetName(0); name != classID {
		t.Errorf("sheet name = %q, want %q", name, classID)
	}
	rows, err := f.GetRows(classID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	header := []string{"id", "name", "hw1", "midterm", "total"}
	for i, h := range header {
		if rows[0][i] != h {
			t.Errorf("header column %d = %q, want %q", i, rows[0][i], h)
		}
	}
	if rows[1][0] != "s1" || rows[1][2] != "8" || rows[1][3] != "18" {
		t.Errorf("wrong first row: %q", rows[1])
	}
	total, err := strconv.ParseFloat(rows[1][4], 64)
	if err != nil {
		t.Fatal(err)
	}
	if total < 84.999 || total > 85.001 {
		t.Errorf("total = %v, want 85", total)
	}
	if rows[2][2] != "" || rows[2][4] != "50" {
		t.Errorf("wrong second row: %q", rows[2])
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct{ in, exp string }{
		{"CS101-fall-01", "CS101-fall-01"},
		{"a/b:c", "a_b_c"},
		{"", "gradebook"},
		{"0123456789012345678901234567890123", "0123456789012345678901234567890"},
		{strings.Repeat("é", 40), strings.Repeat("é", 31)},
		{"Música-otoño-01-Introducción-a-la-teoría", "Música-otoño-01-Introducción-a-"},
	}
	for _, tt := range tests {
		got := sheetName(tt.in)
		if got != tt.exp {
			t.Errorf("sheetName(%q) = %q, want %q", tt.in, got, tt.exp)
		}
		if !utf8.ValidString(got) {
			t.Errorf("sheetName(%q) is not valid utf8", tt.in)
		}
	}
}
