package hoa

import (
	"strings"
	"testing"
)

func TestAnswerShortTermRentalQuestion(t *testing.T) {
	answer := Answer("Does this HOA allow Airbnb rentals?", "Silverstone HOA")

	if !strings.Contains(answer, "Silverstone HOA") {
		t.Fatal("expected HOA name in answer")
	}
	if !strings.Contains(answer, "Short-Term Rental Ban") {
		t.Fatalf("expected short-term rental rule in answer, got:\n%s", answer)
	}
	if !strings.Contains(answer, "Confirm rental terms directly with HOA") {
		t.Fatal("expected standing disclaimer in answer")
	}
}

func TestAnswerLeaseQuestion(t *testing.T) {
	answer := Answer("Is there a minimum lease approval process?", "Desert Ridge")

	if !strings.Contains(answer, "HOA Lease Approval") {
		t.Fatalf("expected lease approval rule in answer, got:\n%s", answer)
	}
}

func TestAnswerZeroOverlap(t *testing.T) {
	answer := Answer("What color can I paint my fence?", "Desert Ridge")

	if !strings.Contains(answer, "Unable to determine rental restrictions") {
		t.Fatalf("expected cannot-determine answer, got:\n%s", answer)
	}
	if !strings.Contains(answer, "Recommend requesting CC&Rs from HOA directly") {
		t.Fatal("expected manual verification recommendation")
	}
	if strings.Contains(answer, "Next Step") {
		t.Fatal("cannot-determine answer must not include rule content")
	}
}

func TestSplitChunks(t *testing.T) {
	chunks := SplitChunks("Section 1 text here.\n\nSection 2 text here.\n\n  Section 3.  ")

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[2].Text != "Section 3." {
		t.Fatalf("expected trimmed chunk text, got %q", chunks[2].Text)
	}
}
