package poker

import (
	"encoding/json"
	"testing"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank() != Ace {
		t.Errorf("Expected rank Ace, got %d", aceSpades.Rank())
	}
	if aceSpades.Suit() != Spades {
		t.Errorf("Expected suit Spades, got %d", aceSpades.Suit())
	}
	if aceSpades.String() != "As" {
		t.Errorf("Expected 'As', got %s", aceSpades.String())
	}

	twoClubs := NewCard(Two, Clubs)
	if twoClubs.String() != "2c" {
		t.Errorf("Expected '2c', got %s", twoClubs.String())
	}

	if Card(DeckSize).Valid() {
		t.Error("card 52 should be invalid")
	}
	if Card(DeckSize).String() != "??" {
		t.Errorf("Expected '??' for invalid card, got %s", Card(DeckSize).String())
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{"As", NewCard(Ace, Spades), false},
		{"Th", NewCard(Ten, Hearts), false},
		{"2c", NewCard(Two, Clubs), false},
		{"9d", NewCard(Nine, Diamonds), false},
		{"10h", 0, true},
		{"as", 0, true},
		{"AS", 0, true},
		{"Ax", 0, true},
		{"A", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCard(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCard(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCardsRoundTrip(t *testing.T) {
	t.Parallel()

	for c := range Card(DeckSize) {
		parsed, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("ParseCard(%s): %v", c, err)
		}
		if parsed != c {
			t.Errorf("round trip of %s gave %s", c, parsed)
		}
	}

	cards, err := ParseCards("As Kd  7h")
	if err != nil {
		t.Fatal(err)
	}
	if got := Strings(cards); len(got) != 3 || got[0] != "As" || got[1] != "Kd" || got[2] != "7h" {
		t.Errorf("unexpected cards %v", got)
	}
	if _, err := ParseCards("As Zz"); err == nil {
		t.Error("expected error for bad token")
	}
}

func TestCardJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Card{NewCard(Queen, Hearts), NewCard(Three, Clubs)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["Qh","3c"]` {
		t.Errorf("unexpected JSON %s", data)
	}

	var cards []Card
	if err := json.Unmarshal(data, &cards); err != nil {
		t.Fatal(err)
	}
	if cards[0] != NewCard(Queen, Hearts) || cards[1] != NewCard(Three, Clubs) {
		t.Errorf("unexpected cards %v", cards)
	}
	if err := json.Unmarshal([]byte(`["1x"]`), &cards); err == nil {
		t.Error("expected error for invalid token")
	}
}
