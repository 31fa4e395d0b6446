package mood

import "testing"

func TestResolveKnownLabels(t *testing.T) {
	entry, err := Resolve("很难过")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if entry.Color != "#CD5C5C" || entry.Score != 0 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	entry, err = Resolve("非常开心")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if entry.Color != "#FFD700" || entry.Score != 100 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestResolveEmojiSuffix(t *testing.T) {
	entry, err := Resolve("很难过 😢")
	if err != nil {
		t.Fatalf("Resolve err: %v", err)
	}
	if entry.Label != "很难过" || entry.Color != "#CD5C5C" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestResolveUnknownLabel(t *testing.T) {
	if _, err := Resolve("超级无敌"); err != ErrUnknownMood {
		t.Fatalf("expected ErrUnknownMood, got %v", err)
	}
	if _, err := Resolve(""); err != ErrUnknownMood {
		t.Fatalf("expected ErrUnknownMood for empty label, got %v", err)
	}
}

func TestEntriesOrderAndImmutability(t *testing.T) {
	entries := Entries()
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	if entries[0].Label != "非常开心" || entries[4].Label != "很难过" {
		t.Fatalf("display order broken: %v ... %v", entries[0].Label, entries[4].Label)
	}

	entries[0].Color = "#000000"
	if fresh := Entries(); fresh[0].Color != "#FFD700" {
		t.Fatal("Entries must return a copy")
	}
}
