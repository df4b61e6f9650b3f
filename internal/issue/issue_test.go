// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(lastId) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), lastId)
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	for id := Id(1); id <= lastId; id++ {
		got := Get(id)
		if got == nil {
			t.Errorf("Get(%d) = nil", id)
			continue
		}
		if got.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, got.Id())
		}
	}
	if Get(0) != nil || Get(lastId+1) != nil {
		t.Error("Get() of an unknown id should return nil")
	}
}

func TestAllIssuesHaveHeading(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		msg := strings.TrimSpace(string(i.MarkdownMsg()))
		if !strings.HasPrefix(msg, "# ") {
			t.Errorf("issue %d does not start with a heading: %.40q", i.Id(), msg)
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	i := &Issue{docLinks: []HttpLink{"https://a"}, extLinks: []HttpLink{"https://b"}}
	i.DocLinks()[0] = "changed"
	i.ExtLinks()[0] = "changed"
	if i.docLinks[0] != "https://a" || i.extLinks[0] != "https://b" {
		t.Error("link accessors must not expose internal slices")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	i := &Issue{
		id:       ManifestNotFoundId,
		mdMsg:    "# Manifest not found!",
		docLinks: []HttpLink{"https://example.com/docs"},
		extLinks: []HttpLink{"https://example.com/ext"},
	}
	out, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, want := range []string{"Manifest not found!", "See also", "https://example.com/docs", "https://example.com/ext"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q:\n%s", want, out)
		}
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	t.Parallel()

	out, err := (&Issue{mdMsg: "# Plain"}).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(out, "See also") {
		t.Errorf("Render() without links should not add a links section:\n%s", out)
	}
}

func TestAllIssuesAreRenderable(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		if _, err := i.Render("notty"); err != nil {
			t.Errorf("issue %d Render() error = %v", i.Id(), err)
		}
	}
}
