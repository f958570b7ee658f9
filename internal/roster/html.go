package roster

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/harrybrwn/errs"
	"golang.org/x/net/html"
)

// htmlRows reads the rows of the first table in an html document.
func htmlRows(r io.Reader) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errs.New("no table found in document")
	}
	var rows [][]string
	table.Find("tr").Each(func(i int, s *goquery.Selection) {
		cells := s.Find("th, td")
		row := make([]string, 0, cells.Length())
		for _, n := range cells.Nodes {
			cell := &goquery.Selection{Nodes: []*html.Node{n}}
			// some exported rosters pad empty cells with nbsp
			row = append(row, strings.Trim(cell.Text(), "\n \t\u00a0"))
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	return rows, nil
}
