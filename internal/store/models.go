package store

import "strings"

// Class is one section of a course for a term.
type Class struct {
	ID           string
	CourseNumber string
	Term         string
	Section      string
	Description  string
}

// ClassID builds the id used for a class out of its
// course number, term, and section.
func ClassID(course, term, section string) string {
	return strings.Join([]string{course, term, section}, "-")
}

// ClassSummary is a class along with the number of
// students enrolled in it.
type ClassSummary struct {
	Class
	Students int
}

// Category is a weighted group of assignments.
type Category struct {
	Name   string
	Weight float64
}

// Assignment is a graded piece of work in a class.
type Assignment struct {
	Name        string
	Description string
	Points      float64
	// Category is the name of the category the
	// assignment belongs to.
	Category string
}

// Student is a student that can be enrolled in classes.
type Student struct {
	ID       string `roster:"id"`
	Username string `roster:"username"`
	Name     string `roster:"name"`
}

// Score is a grade that a student got on an assignment.
type Score struct {
	Assignment string
	Score      float64
	Points     float64
}
