// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ast

import "testing"

var kindParentTests = []struct {
	kind   Kind
	parent Kind
}{
	{KindNone, KindNone},
	{KindBlock, KindNone},
	{KindParagraph, KindBlock},
	{KindText, KindInline},
	{KindEscaped, KindText},
	{KindAutoLink, KindLink},
}

func TestKindParent(t *testing.T) {
	for _, tt := range kindParentTests {
		if p := tt.kind.Parent(); p != tt.parent {
			t.Errorf("%v.Parent() = %v, want %v", tt.kind, p, tt.parent)
		}
	}
}

func TestNewKind(t *testing.T) {
	k := NewKind("TestMention", KindAutoLink)
	if k.String() != "TestMention" {
		t.Errorf("String() = %q, want TestMention", k.String())
	}
	for _, anc := range []Kind{KindAutoLink, KindLink, KindInline, KindNone} {
		if !k.IsA(anc) {
			t.Errorf("%v.IsA(%v) = false, want true", k, anc)
		}
	}
	if k.IsA(KindBlock) {
		t.Errorf("%v.IsA(Block) = true, want false", k)
	}
}

func TestNewKindBadParent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewKind with invalid parent did not panic")
		}
	}()
	NewKind("Bad", Kind(1<<20))
}

func TestWalk(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Paragraph{Inline: Inlines{
			&Text{"a"},
			&Emph{Marker: "*", Inner: Inlines{&Strong{Marker: "**", Inner: Inlines{&Text{"b"}}}}},
			&AutoLink{Link{Inner: Inlines{&Text{"c"}}, URL: "c"}},
		}},
		&ThematicBreak{},
		&Heading{Level: 1, Inline: Inlines{&Code{"d"}}},
	}}
	var got []Kind
	Walk(doc, func(x Inline) { got = append(got, x.Kind()) })
	want := []Kind{KindText, KindEmph, KindStrong, KindText, KindAutoLink, KindText, KindCode}
	if len(got) != len(want) {
		t.Fatalf("Walk visited %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Walk visited %v, want %v", got, want)
		}
	}
}
