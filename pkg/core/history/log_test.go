package history

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func TestLogIsBoundedAndNewestFirst(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < 55; i++ {
		l.Addf("entry %d", i)
		if l.Len() > DefaultLimit {
			t.Fatalf("Log grew to %d entries", l.Len())
		}
	}
	entries := l.Entries()
	if len(entries) != DefaultLimit {
		t.Fatalf("Expected %d entries, got %d", DefaultLimit, len(entries))
	}
	if entries[0] != "entry 54" || entries[DefaultLimit-1] != "entry 35" {
		t.Errorf("Unexpected order: first %q last %q", entries[0], entries[DefaultLimit-1])
	}
}

func TestLogRecentAndClear(t *testing.T) {
	l := NewLog(5)
	l.Add("a")
	l.Add("b")
	if got := l.Recent(3); len(got) != 2 || got[0] != "b" {
		t.Errorf("Unexpected recent %v", got)
	}

	entries := l.Entries()
	entries[0] = "mutated"
	if l.Entries()[0] != "b" {
		t.Error("Entries must return a copy")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Expected empty log, got %d", l.Len())
	}
	if l.Limit() != 5 {
		t.Errorf("Expected limit 5, got %d", l.Limit())
	}
}

func TestHTMLReport(t *testing.T) {
	l := NewLog(DefaultLimit)
	l.Add("-5 + 3 = -2")
	l.Add("DCF: FCF=100, WACC=8.5%, TG=2.5% = 1967")

	html, err := l.HTML(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if h := doc.Find("h1").Text(); h != "Calculation History" {
		t.Errorf("Unexpected heading %q", h)
	}
	items := doc.Find("ul > li")
	if items.Length() != 2 {
		t.Fatalf("Expected 2 list items, got %d in %s", items.Length(), html)
	}
	if doc.Find("li ul").Length() != 0 {
		t.Error("Entries must not render as nested lists")
	}
	want := []string{"DCF: FCF=100, WACC=8.5%, TG=2.5% = 1967", "-5 + 3 = -2"}
	items.Each(func(i int, s *goquery.Selection) {
		if got := strings.TrimSpace(s.Text()); got != want[i] {
			t.Errorf("item %d = %q, want %q", i, got, want[i])
		}
	})
}

func TestMarkdownEmpty(t *testing.T) {
	md := NewLog(3).Markdown(time.Unix(0, 0).UTC())
	if !strings.Contains(md, "No calculations yet.") {
		t.Errorf("Unexpected markdown %s", md)
	}
	if !strings.Contains(md, fmt.Sprintf("0 of %d entries", 3)) {
		t.Errorf("Missing counts in %s", md)
	}
}
