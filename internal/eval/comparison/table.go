package comparison

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/moby/sys/atomicwriter"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/report"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/rubric"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/utils"
)

const (
	headerCriterion    = "Criterion"
	headerSubCriterion = "Sub-criterion"
	notApplicable      = "N/A"
	labelColumnOffset  = 2
)

// canonicalRows is the row order of a freshly created table. Existing tables
// keep whatever order they were saved with.
var canonicalRows = [][2]string{
	{rubric.SectionAdherence, notApplicable},
	{rubric.SectionKindness, notApplicable},
	{rubric.SectionInterfaith, "Respect_and_Handling_Objections"},
	{rubric.SectionInterfaith, "Objection_Acknowledgement"},
	{rubric.SectionInterfaith, "Evangelism"},
	{rubric.SectionInterfaith, "Gospel_Boldness"},
	{rubric.SectionArabic, "Grammar_and_Syntax"},
	{rubric.SectionArabic, "Theological_Nuance"},
	{rubric.SectionArabic, "Contextual_Clarity"},
	{rubric.SectionArabic, "Consistency_of_Terms"},
	{rubric.SectionArabic, "Arabic_Purity"},
}

// Table is the wide comparison artifact: one row per criterion, one column per
// scored subject.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

func New() *Table {
	t := &Table{Header: []string{headerCriterion, headerSubCriterion}}
	for _, r := range canonicalRows {
		t.Rows = append(t.Rows, []string{r[0], r[1]})
	}
	return t
}

// Load reads the table at path, or returns a fresh canonical table if no
// file exists there.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open comparison table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse comparison table: %w", err)
	}
	if len(records) == 0 {
		return New(), nil
	}

	t := &Table{Header: records[0], Rows: records[1:]}
	for len(t.Header) < labelColumnOffset {
		t.Header = append(t.Header, "")
	}
	return t, nil
}

// Labels returns the subject labels in column order.
func (t *Table) Labels() []string {
	return t.Header[labelColumnOffset:]
}

func (t *Table) columnIndex(label string) int {
	for i, l := range t.Labels() {
		if l == label {
			return i + labelColumnOffset
		}
	}
	return -1
}

// Upsert writes agg into the column for label and returns the column name used.
// A new label gets a new column. An existing label is overwritten in place when
// overwrite is set; otherwise the values go to a new "<label>_<n>" column with
// the smallest unused n >= 2.
func (t *Table) Upsert(label string, agg report.Aggregated, overwrite bool) string {
	t.pad()

	col := t.columnIndex(label)
	if col >= 0 && overwrite {
		for _, row := range t.Rows {
			row[col] = cellValue(row, agg)
		}
		return label
	}

	name := label
	if col >= 0 {
		name = t.nextFreeLabel(label)
	}
	t.Header = append(t.Header, name)
	for i, row := range t.Rows {
		t.Rows[i] = append(row, cellValue(row, agg))
	}
	return name
}

func (t *Table) nextFreeLabel(label string) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", label, n)
		if t.columnIndex(candidate) < 0 {
			return candidate
		}
	}
}

// pad extends short rows to the header width so every column index is valid.
func (t *Table) pad() {
	for i, row := range t.Rows {
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
}

// Column returns the cells of label keyed by rubric field.
func (t *Table) Column(label string) (map[rubric.Key]string, bool) {
	col := t.columnIndex(label)
	if col < 0 {
		return nil, false
	}
	out := make(map[rubric.Key]string, len(t.Rows))
	for _, row := range t.Rows {
		key, ok := rowKey(row)
		if !ok {
			continue
		}
		if col < len(row) {
			out[key] = row[col]
		} else {
			out[key] = ""
		}
	}
	return out, true
}

func rowKey(row []string) (rubric.Key, bool) {
	if len(row) < labelColumnOffset {
		return rubric.Key{}, false
	}
	criterion, sub := row[0], row[1]
	if sub == notApplicable {
		return rubric.Key{Section: criterion, Field: rubric.FieldOverall}, true
	}
	return rubric.Key{Section: criterion, Field: sub}, true
}

func cellValue(row []string, agg report.Aggregated) string {
	key, ok := rowKey(row)
	if !ok {
		return ""
	}
	v, ok := agg[key]
	if !ok {
		return ""
	}
	return utils.FormatDecimal(v)
}

// Save writes the table to path through a temporary file in the same
// directory, so readers never see a partially written table.
func (t *Table) Save(path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("encode comparison header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("encode comparison rows: %w", err)
	}
	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write comparison table: %w", err)
	}
	return nil
}
