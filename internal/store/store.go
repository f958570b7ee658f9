// Package store keeps the gradebook in a sqlite database.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrybrwn/gradebook/pkg/grade"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	_ "modernc.org/sqlite" // sqlite driver
)

var (
	// ErrNotFound is returned when a class, category, assignment,
	// or student does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when creating something that
	// already exists.
	ErrExists = errors.New("already exists")
)

// Store is a gradebook database.
type Store struct {
	db *sql.DB
}

var _ grade.Source = (*Store)(nil)

// Open will open the database at path and create the
// schema if it does not exist yet.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "could not create database directory")
		}
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}
	// sqlite only handles one writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err = s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("path", path).Debug("opened gradebook database")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pragmas are set on every new connection by the driver.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
}

func dsn(path string) string {
	params := make([]string, len(pragmas))
	for i, p := range pragmas {
		params[i] = "_pragma=" + p
	}
	return path + "?" + strings.Join(params, "&")
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS student (
			id       TEXT PRIMARY KEY,
			username TEXT UNIQUE,
			name     TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS class (
			id            TEXT PRIMARY KEY,
			course_number TEXT,
			term          TEXT,
			section       TEXT,
			description   TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS category (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			name     TEXT,
			weight   REAL,
			class_id TEXT REFERENCES class(id),
			UNIQUE(class_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS assignment (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT,
			description TEXT,
			points      REAL,
			category_id INTEGER REFERENCES category(id),
			class_id    TEXT REFERENCES class(id),
			UNIQUE(class_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS enrollment (
			student_id TEXT REFERENCES student(id),
			class_id   TEXT REFERENCES class(id),
			PRIMARY KEY(student_id, class_id)
		)`,
		`CREATE TABLE IF NOT EXISTS grade (
			student_id    TEXT REFERENCES student(id),
			assignment_id INTEGER REFERENCES assignment(id),
			score         REAL,
			PRIMARY KEY(student_id, assignment_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "could not create schema")
		}
	}
	return nil
}

// CreateClass adds a new class and returns its id.
func (s *Store) CreateClass(ctx context.Context, c Class) (string, error) {
	id := ClassID(c.CourseNumber, c.Term, c.Section)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO class (id, course_number, term, section, description)
		 VALUES (?, ?, ?, ?, ?)`,
		id, c.CourseNumber, c.Term, c.Section, c.Description)
	if isUnique(err) {
		return "", errors.Wrapf(ErrExists, "class %s", id)
	}
	if err != nil {
		return "", errors.Wrap(err, "could not create class")
	}
	return id, nil
}

// Classes lists every class along with how many students
// are enrolled in each.
func (s *Store) Classes(ctx context.Context) ([]ClassSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.course_number, c.term, c.section, c.description, COUNT(e.student_id)
		 FROM class c LEFT JOIN enrollment e ON c.id = e.class_id
		 GROUP BY c.id
		 ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var classes []ClassSummary
	for rows.Next() {
		var c ClassSummary
		err = rows.Scan(&c.ID, &c.CourseNumber, &c.Term, &c.Section, &c.Description, &c.Students)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Class gets a class by id.
func (s *Store) Class(ctx context.Context, id string) (*Class, error) {
	var c Class
	err := s.db.QueryRowContext(ctx,
		`SELECT id, course_number, term, section, description FROM class WHERE id = ?`, id,
	).Scan(&c.ID, &c.CourseNumber, &c.Term, &c.Section, &c.Description)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "class %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// AddCategory adds a weighted category to a class.
func (s *Store) AddCategory(ctx context.Context, classID, name string, weight float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category (name, weight, class_id) VALUES (?, ?, ?)`,
		name, weight, classID)
	if isUnique(err) {
		return errors.Wrapf(ErrExists, "category %q", name)
	}
	return errors.Wrap(err, "could not add category")
}

// Categories lists the categories in a class.
func (s *Store) Categories(ctx context.Context, classID string) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, weight FROM category WHERE class_id = ? ORDER BY id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cats []Category
	for rows.Next() {
		var c Category
		if err = rows.Scan(&c.Name, &c.Weight); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// AddAssignment adds an assignment to one of the categories in a class.
func (s *Store) AddAssignment(ctx context.Context, classID string, a Assignment) error {
	var categoryID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM category WHERE name = ? AND class_id = ?`,
		a.Category, classID,
	).Scan(&categoryID)
	if err == sql.ErrNoRows {
		return errors.Wrapf(ErrNotFound, "category %q", a.Category)
	}
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignment (name, description, points, category_id, class_id)
		 VALUES (?, ?, ?, ?, ?)`,
		a.Name, a.Description, a.Points, categoryID, classID)
	if isUnique(err) {
		return errors.Wrapf(ErrExists, "assignment %q", a.Name)
	}
	return errors.Wrap(err, "could not add assignment")
}

// Assignments lists the assignments in a class.
func (s *Store) Assignments(ctx context.Context, classID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.name, a.description, a.points, c.name
		 FROM assignment a JOIN category c ON a.category_id = c.id
		 WHERE a.class_id = ?
		 ORDER BY a.id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Assignment
	for rows.Next() {
		var a Assignment
		if err = rows.Scan(&a.Name, &a.Description, &a.Points, &a.Category); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// AddStudent adds a student if they do not exist yet and
// enrolls them in a class.
func (s *Store) AddStudent(ctx context.Context, classID string, st Student) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO student (id, username, name) VALUES (?, ?, ?)`,
		st.ID, st.Username, st.Name)
	if err != nil {
		return errors.Wrap(err, "could not add student")
	}
	// the insert is ignored when someone else has the username
	var n int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM student WHERE id = ?`, st.ID).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrExists, "username %q", st.Username)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO enrollment (student_id, class_id) VALUES (?, ?)`,
		st.ID, classID)
	if err != nil {
		return errors.Wrap(err, "could not enroll student")
	}
	return tx.Commit()
}

// Students lists the students enrolled in a class.
func (s *Store) Students(ctx context.Context, classID string) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.username, s.name
		 FROM student s JOIN enrollment e ON s.id = e.student_id
		 WHERE e.class_id = ?
		 ORDER BY s.id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var students []Student
	for rows.Next() {
		var st Student
		if err = rows.Scan(&st.ID, &st.Username, &st.Name); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

// RecordGrade sets a student's score on an assignment. Recording
// a second score for the same assignment replaces the first.
func (s *Store) RecordGrade(ctx context.Context, classID, studentID, assignment string, score float64) error {
	var assignmentID int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM assignment WHERE name = ? AND class_id = ?`,
		assignment, classID,
	).Scan(&assignmentID)
	if err == sql.ErrNoRows {
		return errors.Wrapf(ErrNotFound, "assignment %q", assignment)
	}
	if err != nil {
		return err
	}
	if err = s.enrolled(ctx, classID, studentID); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO grade (student_id, assignment_id, score) VALUES (?, ?, ?)
		 ON CONFLICT(student_id, assignment_id) DO UPDATE SET score = excluded.score`,
		studentID, assignmentID, score)
	return errors.Wrap(err, "could not record grade")
}

// StudentGrades lists a student's scores in a class.
func (s *Store) StudentGrades(ctx context.Context, classID, studentID string) ([]Score, error) {
	if err := s.enrolled(ctx, classID, studentID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.name, g.score, a.points
		 FROM grade g JOIN assignment a ON g.assignment_id = a.id
		 WHERE g.student_id = ? AND a.class_id = ?
		 ORDER BY a.id`, studentID, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scores []Score
	for rows.Next() {
		var sc Score
		if err = rows.Scan(&sc.Assignment, &sc.Score, &sc.Points); err != nil {
			return nil, err
		}
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// Entries gets the graded entries used to compute a student's
// weighted percentage in a class.
func (s *Store) Entries(ctx context.Context, classID, studentID string) ([]grade.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.score, a.points, c.weight
		 FROM grade g
		 JOIN assignment a ON g.assignment_id = a.id
		 JOIN category c ON a.category_id = c.id
		 WHERE g.student_id = ? AND a.class_id = ?
		 ORDER BY a.id`, studentID, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []grade.Entry
	for rows.Next() {
		var e grade.Entry
		if err = rows.Scan(&e.Score, &e.Points, &e.Weight); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) enrolled(ctx context.Context, classID, studentID string) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollment WHERE student_id = ? AND class_id = ?`,
		studentID, classID,
	).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(ErrNotFound, "student %s in %s", studentID, classID)
	}
	return nil
}

func isUnique(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
