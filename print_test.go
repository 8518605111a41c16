package sqlw

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"testing"
)

func TestCursor_Print(t *testing.T) {
	c, _, _ := newTestCursor(t, fixedRows([]string{"id", "name"},
		[]driver.Value{int64(1), "a"},
		[]driver.Value{int64(22), nil},
		[]driver.Value{int64(3), "größe"},
	), nil)
	if _, err := c.GetResult(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	defer c.FreeResult()

	var buf bytes.Buffer
	n, err := c.Print(&buf)
	if err != nil || n != 3 {
		t.Fatalf("Print = %d, %v", n, err)
	}
	want := "" +
		"+----+-------+\n" +
		"| id | name  |\n" +
		"+----+-------+\n" +
		"| 1  | a     |\n" +
		"| 22 | NULL  |\n" +
		"| 3  | größe |\n" +
		"+----+-------+\n" +
		"3 rows\n"
	if buf.String() != want {
		t.Fatalf("table mismatch:\n got:\n%s\nwant:\n%s", buf.String(), want)
	}
	if c.FetchRow() {
		t.Fatal("Print should leave the cursor exhausted")
	}
}

func TestCursor_PrintRemainingRows(t *testing.T) {
	c, _, _ := newTestCursor(t, fixedRows([]string{"n"},
		[]driver.Value{int64(1)},
		[]driver.Value{int64(2)},
	), nil)
	if _, err := c.GetResult(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	defer c.FreeResult()
	if !c.FetchRow() {
		t.Fatal("FetchRow = false")
	}
	var buf bytes.Buffer
	if n, err := c.Print(&buf); err != nil || n != 1 {
		t.Fatalf("Print = %d, %v", n, err)
	}
	want := "+---+\n| n |\n+---+\n| 2 |\n+---+\n1 row\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCursor_PrintEmptyAndIdle(t *testing.T) {
	c, _, _ := newTestCursor(t, fixedRows([]string{"x"}), nil)
	var buf bytes.Buffer
	if _, err := c.Print(&buf); !errors.Is(err, ErrNoResult) {
		t.Fatalf("idle Print err = %v", err)
	}
	if _, err := c.GetResult(context.Background(), "q"); err != nil {
		t.Fatal(err)
	}
	defer c.FreeResult()
	if n, err := c.Print(&buf); err != nil || n != 0 {
		t.Fatalf("Print = %d, %v", n, err)
	}
	if want := "+---+\n| x |\n+---+\n0 rows\n"; buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
